package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/FairForge/loadplanner/internal/evidence"
)

type eventsOptions struct {
	LogPath string
	Service string
	JSON    bool
}

func newEventsCmd(a *app) *cobra.Command {
	var opts eventsOptions

	cmd := &cobra.Command{
		Use:   "events --log <file> [--service <name>]",
		Short: "List entries from an evidence log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := orDefault(opts.LogPath, a.cfg.Evidence.Path)
			if strings.TrimSpace(path) == "" {
				return errors.New("--log is required")
			}

			events, err := evidence.Read(path)
			if err != nil {
				return err
			}
			events = evidence.Filter(events, opts.Service)

			out := cmd.OutOrStdout()
			if opts.JSON {
				data, err := json.MarshalIndent(events, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			if len(events) == 0 {
				fmt.Fprintln(out, "no events")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TS\tSERVICE\tOUTCOME\tINTERPRETED\tSCENARIOS\tPROFILE")
			for _, ev := range events {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\t%s\n",
					ev.TS, ev.Service, ev.Outcome, ev.Interpretation, strings.Join(ev.Scenarios, ","), ev.Profile)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&opts.LogPath, "log", "", "evidence log (JSONL) to read")
	cmd.Flags().StringVar(&opts.Service, "service", "", "only show events for this service")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print events as a JSON array")
	return cmd
}
