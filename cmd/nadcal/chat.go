package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nadcal/internal/app"
	"nadcal/internal/event"
	"nadcal/internal/session"
)

const chatHelp = `พิมพ์ข้อความเพื่อสร้างกิจกรรม หรือคำสั่ง:
  :save                      บันทึกกิจกรรมที่รอยืนยันทั้งหมด
  :edit <n> field=value ...  แก้ไขกิจกรรมที่ n (date, time, description, attendees, location)
  :cancel                    ยกเลิกกิจกรรมที่รอยืนยัน
  :list                      แสดงกิจกรรมที่บันทึกแล้ว
  :quit                      ออก`

func newChatCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat that turns messages into pending events",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open()
			if err != nil {
				return err
			}
			defer a.Close()

			key, err := c.session(a.Workspace)
			if err != nil {
				return err
			}

			if addr := a.Config.Metrics.Addr; addr != "" {
				stop := serveMetrics(a, addr)
				defer stop()
			}

			return runChat(cmd.Context(), a, a.Session(key), filepath.Join(a.Workspace, "history"))
		},
	}
}

func serveMetrics(a *app.App, addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.Metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Warn("metrics server stopped", zap.Error(err))
		}
	}()
	a.Logger.Info("serving metrics", zap.String("addr", addr))
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func runChat(ctx context.Context, a *app.App, s *session.Session, historyFile string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "> ",
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         ":quit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("initialize readline: %w", err)
	}
	defer rl.Close()

	out := rl.Stdout()
	fmt.Fprintln(out, bold("nadcal")+" "+gray("session "+s.Key()))
	fmt.Fprintln(out, gray(chatHelp))

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, ":") {
			printReply(out, s.Submit(ctx, line))
			continue
		}
		quit, err := chatCommand(ctx, out, s, line)
		if err != nil {
			printError(out, err)
		}
		if quit {
			return nil
		}
	}
}

// chatCommand runs one ":" command and reports whether the chat should end.
func chatCommand(ctx context.Context, out io.Writer, s *session.Session, line string) (bool, error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q", ":exit":
		return true, nil
	case ":help":
		fmt.Fprintln(out, chatHelp)
	case ":save":
		report, err := s.ConfirmAll(ctx)
		if errors.Is(err, session.ErrNoPending) {
			fmt.Fprintln(out, yellow("ไม่มีกิจกรรมที่รอยืนยัน"))
			return false, nil
		}
		if err != nil {
			return false, err
		}
		printReport(out, report)
	case ":cancel":
		n := s.Cancel()
		fmt.Fprintln(out, gray(fmt.Sprintf("ยกเลิก %d กิจกรรม", n)))
	case ":list":
		events, err := s.Events(ctx)
		if err != nil {
			return false, err
		}
		printEvents(out, events)
	case ":edit":
		if len(fields) < 3 {
			return false, errors.New("usage: :edit <n> field=value ...")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return false, fmt.Errorf("bad event number %q", fields[1])
		}
		patch, err := parsePatch(fields[2:])
		if err != nil {
			return false, err
		}
		p, err := s.Edit(n-1, patch)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(out, green(session.Summary(p)))
	default:
		return false, fmt.Errorf("unknown command %s (:help)", fields[0])
	}
	return false, nil
}

// parsePatch reads field=value pairs. An empty value clears the field;
// underscores in a value stand for spaces.
func parsePatch(pairs []string) (event.Patch, error) {
	p := event.Patch{}
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("expected field=value, got %q", pair)
		}
		if value == "" {
			p[name] = nil
			continue
		}
		p[name] = event.String(strings.ReplaceAll(value, "_", " "))
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
