/*
Copyright 2024 Alexandre Mahdhaoui

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/alexandremahdhaoui/vncfleet/internal/util/tlsutil"
	"github.com/alexandremahdhaoui/vncfleet/pkg/client"
)

const (
	Name = "vncfleetctl"

	defaultServer        = "http://localhost:3000"
	defaultSubjectPrefix = "vncfleet.nodes"
)

var (
	Version   = "dev" //nolint:gochecknoglobals // set by ldflags
	CommitSHA = "n/a" //nolint:gochecknoglobals // set by ldflags
)

var errInvalidOutput = errors.New("output must be \"table\" or \"json\"")

type globalFlags struct {
	server   string
	username string
	password string
	output   string
	timeout  time.Duration
	tls      tlsutil.ClientConfig

	httpClient *http.Client
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           Name,
		Short:         "Manage vncfleet nodes",
		Version:       fmt.Sprintf("%s (%s)", Version, CommitSHA),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if flags.output != "table" && flags.output != "json" {
				return errInvalidOutput
			}

			tlsConfig, err := tlsutil.BuildClientTLSConfig(flags.tls)
			if err != nil {
				return err
			}

			flags.httpClient = &http.Client{Timeout: flags.timeout}
			if tlsConfig != nil {
				flags.httpClient.Transport = &http.Transport{TLSClientConfig: tlsConfig}
			}

			return nil
		},
	}

	server := os.Getenv("VNCFLEET_SERVER")
	if server == "" {
		server = defaultServer
	}

	root.PersistentFlags().StringVarP(&flags.server, "server", "s", server, "vncfleet API base URL")
	root.PersistentFlags().StringVar(&flags.username, "username", os.Getenv("VNCFLEET_USERNAME"), "basic auth username")
	root.PersistentFlags().StringVar(&flags.password, "password", os.Getenv("VNCFLEET_PASSWORD"), "basic auth password")
	root.PersistentFlags().StringVarP(&flags.output, "output", "o", "table", "output format: table or json")
	root.PersistentFlags().DurationVar(&flags.timeout, "timeout", client.DefaultTimeout, "request timeout")
	root.PersistentFlags().StringVar(&flags.tls.CAPath, "ca-file", "", "CA certificate verifying the API server")
	root.PersistentFlags().StringVar(&flags.tls.CertPath, "cert-file", "", "client certificate for mutual TLS")
	root.PersistentFlags().StringVar(&flags.tls.KeyPath, "key-file", "", "client key for mutual TLS")
	root.PersistentFlags().BoolVar(&flags.tls.InsecureSkipVerify, "insecure", false, "skip server certificate verification")

	root.AddCommand(
		newHealthCmd(flags),
		newListCmd(flags),
		newGetCmd(flags),
		newCreateCmd(flags),
		newTransitionCmd(flags, "run", "Start a stopped node and register its console", client.Client.RunNode),
		newTransitionCmd(flags, "stop", "Stop a running node", client.Client.StopNode),
		newTransitionCmd(flags, "wipe", "Reset the disk of a node", client.Client.WipeNode),
		newDeleteCmd(flags),
		newJournalCmd(flags),
		newEventsCmd(natsSubscribe),
	)

	return root
}

func (f *globalFlags) client() client.Client {
	return client.New(f.server, client.Options{
		Username:   f.username,
		Password:   f.password,
		HTTPClient: f.httpClient,
	})
}

// ----------------------------------------------------- COMMANDS --------------------------------------------------- //

func newHealthCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show the health of the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			health, err := flags.client().Health(cmd.Context())
			if err != nil {
				return err
			}

			if flags.output == "json" {
				return printJSON(cmd.OutOrStdout(), health)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "status: %s\nnodes: %d\n", health.Status, health.Nodes)
			return err
		},
	}
}

func newListCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List nodes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			nodes, err := flags.client().ListNodes(cmd.Context())
			if err != nil {
				return err
			}

			return printNodes(cmd.OutOrStdout(), flags.output, nodes)
		},
	}
}

func newGetCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			node, err := flags.client().GetNode(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return printNode(cmd.OutOrStdout(), flags.output, node)
		},
	}
}

func newCreateCmd(flags *globalFlags) *cobra.Command {
	var run bool

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := flags.client()

			node, err := c.CreateNode(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if run {
				if node, err = c.RunNode(cmd.Context(), node.ID); err != nil {
					return err
				}
			}

			return printNode(cmd.OutOrStdout(), flags.output, node)
		},
	}

	cmd.Flags().BoolVar(&run, "run", false, "run the node once created")

	return cmd
}

func newTransitionCmd(
	flags *globalFlags,
	use, short string,
	op func(c client.Client, ctx context.Context, id string) (client.Node, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			node, err := op(flags.client(), cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return printNode(cmd.OutOrStdout(), flags.output, node)
		},
	}
}

func newDeleteCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a node and its disk",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.client().DeleteNode(cmd.Context(), args[0]); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "node %s deleted\n", args[0])
			return err
		},
	}
}

func newJournalCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "journal ID",
		Short: "Show the sub-steps of the last operations of a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			journals, err := flags.client().Journal(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if flags.output == "json" {
				return printJSON(cmd.OutOrStdout(), journals)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "OPERATION\tSTEP\tOUTCOME\tTIME\tERROR")

			for _, j := range journals {
				for _, e := range j.Entries {
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
						j.Operation, e.Step, e.Outcome, e.Time.Format(time.RFC3339), e.Error)
				}
			}

			return w.Flush()
		},
	}
}

// subscribeFunc subscribes handler to subject on the server at url. The returned function ends the
// subscription and releases the connection.
type subscribeFunc func(url, subject string, handler nats.MsgHandler) (unsubscribe func(), err error)

func natsSubscribe(url, subject string, handler nats.MsgHandler) (func(), error) {
	nc, err := nats.Connect(url, nats.Name(Name))
	if err != nil {
		return nil, err
	}

	sub, err := nc.Subscribe(subject, handler)
	if err != nil {
		nc.Close()
		return nil, err
	}

	return func() {
		_ = sub.Unsubscribe()
		_ = nc.Drain()
	}, nil
}

func newEventsCmd(subscribe subscribeFunc) *cobra.Command {
	var (
		natsURL string
		prefix  string
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Follow node lifecycle events published on NATS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			unsubscribe, err := subscribe(natsURL, prefix+".>", func(msg *nats.Msg) {
				_, _ = fmt.Fprintf(out, "%s %s\n", msg.Subject, msg.Data)
			})
			if err != nil {
				return err
			}

			defer unsubscribe()

			<-cmd.Context().Done()

			return nil
		},
	}

	cmd.Flags().StringVar(&natsURL, "nats", nats.DefaultURL, "NATS server URL")
	cmd.Flags().StringVar(&prefix, "subject-prefix", defaultSubjectPrefix, "subject prefix of node events")

	return cmd
}

// ------------------------------------------------------ OUTPUT ---------------------------------------------------- //

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printNode(w io.Writer, output string, node client.Node) error {
	if output == "json" {
		return printJSON(w, node)
	}

	return printNodes(w, output, []client.Node{node})
}

func printNodes(w io.Writer, output string, nodes []client.Node) error {
	if output == "json" {
		if nodes == nil {
			nodes = []client.Node{}
		}
		return printJSON(w, nodes)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tVNC PORT\tPROCESS\tCONSOLE")

	for _, n := range nodes {
		console := "-"
		if n.ConsoleURL != nil {
			console = *n.ConsoleURL
		}

		status := n.Status
		if n.OverlayMissing {
			status += " (overlay missing)"
		}

		process := "-"
		if n.ProcessID != "" {
			process = n.ProcessID
			if !n.ProcessAlive {
				process += " (exited)"
			}
		}

		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			n.ID, strings.ReplaceAll(n.Name, "\t", " "), status, n.VNCPort, process, console)
	}

	return tw.Flush()
}
