package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"nadcal/internal/event"
	"nadcal/internal/session"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func printReply(w io.Writer, r session.Reply) {
	if len(r.Candidates) > 1 {
		fmt.Fprintln(w, bold(fmt.Sprintf("พบ %d กิจกรรม", len(r.Candidates))))
	}
	for i, c := range r.Candidates {
		prefix := ""
		if len(r.Candidates) > 1 {
			prefix = fmt.Sprintf("กิจกรรมที่ %d: ", i+1)
		}
		if c.Pending.IsValid {
			fmt.Fprintln(w, prefix+green(c.Message))
		} else {
			fmt.Fprintln(w, prefix+yellow(c.Message))
		}
	}
	if n := r.PendingCount(); n > 0 {
		fmt.Fprintln(w, gray(fmt.Sprintf("รอยืนยัน %d กิจกรรม (:save เพื่อบันทึก)", n)))
	}
}

func printReport(w io.Writer, r session.SaveReport) {
	text := strings.TrimRight(r.String(), "\n")
	if len(r.Failed) > 0 {
		fmt.Fprintln(w, yellow(text))
		return
	}
	fmt.Fprintln(w, green(text))
}

func printEvents(w io.Writer, events []event.Event) {
	if len(events) == 0 {
		fmt.Fprintln(w, gray("ไม่มีกิจกรรม"))
		return
	}
	for _, e := range events {
		line := fmt.Sprintf("%s %s  %s", cyan(event.Value(e.Date)), event.Value(e.Time), bold(event.Value(e.Description)))
		if v := event.Value(e.Attendees); v != "" {
			line += " กับ " + v
		}
		if v := event.Value(e.Location); v != "" {
			line += " @ " + v
		}
		fmt.Fprintf(w, "%s %s\n", line, gray("["+e.ID+"]"))
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, red("error: "+err.Error()))
}
