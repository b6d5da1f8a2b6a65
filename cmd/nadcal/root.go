package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nadcal/internal/app"
	"nadcal/internal/config"
	"nadcal/internal/workspace"
)

type cli struct {
	configPath   string
	workspaceDir string
	sessionID    string
}

// NewRootCommand creates the nadcal command tree.
func NewRootCommand() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:          "nadcal",
		Short:        "Turn Thai chat messages into calendar events",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: nadcal.yaml in the workspace or current directory)")
	root.PersistentFlags().StringVar(&c.workspaceDir, "workspace", "", "workspace directory (default: ~/"+workspace.BaseDirName+")")
	root.PersistentFlags().StringVarP(&c.sessionID, "session", "s", "", "session id (default: the last session used)")

	root.AddCommand(
		newExtractCommand(c),
		newChatCommand(c),
		newEventsCommand(c),
		newMonthCommand(c),
		newImportCommand(c),
		newSessionsCommand(c),
	)
	return root
}

func (c *cli) workspaceRoot() (string, error) {
	if c.workspaceDir != "" {
		return workspace.EnsureAt(c.workspaceDir)
	}
	return workspace.EnsureDefault()
}

func (c *cli) config() (config.Config, string, error) {
	root, err := c.workspaceRoot()
	if err != nil {
		return config.Config{}, "", err
	}
	cfg, err := config.Load(c.configPath, root)
	if err != nil {
		return config.Config{}, "", err
	}
	return cfg, root, nil
}

// open loads configuration and builds the application. The caller closes
// the returned App.
func (c *cli) open() (*app.App, error) {
	cfg, root, err := c.config()
	if err != nil {
		return nil, err
	}
	return app.New(cfg, root)
}

// session resolves the session key: the --session flag, else the last
// session used, else a new one. The result becomes the last session.
func (c *cli) session(root string) (string, error) {
	settings, err := workspace.LoadSettings(root)
	if err != nil {
		return "", err
	}
	key := c.sessionID
	if key == "" {
		key = settings.LastSession
	}
	if key == "" {
		key = workspace.NewSessionID()
	}
	if key != settings.LastSession {
		settings.LastSession = key
		if err := workspace.SaveSettings(root, settings); err != nil {
			return "", fmt.Errorf("remember session: %w", err)
		}
	}
	return key, nil
}
