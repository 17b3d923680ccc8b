package main

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	grpcPresentation "github.com/loanlens/assessment/internal/presentation/grpc"
	"github.com/loanlens/assessment/pkg/tlsutil"
)

func newGetCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get APPLICATION_ID",
		Short: "Fetch a stored assessment from a running assessment service",
		Long: `Fetch a stored assessment from a running assessment service over gRPC.

TLS is used unless --plaintext is given. Trust the development CA written by
assessmentd with --ca-file, or skip verification entirely with --insecure.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGet(cmd, args[0])
		},
	}

	f := cmd.Flags()
	f.String("server", "localhost:9091", "assessment service gRPC address")
	f.String("ca-file", "", "PEM CA bundle that signed the server certificate")
	f.String("server-name", "", "name to verify in the server certificate")
	f.Bool("insecure", false, "skip server certificate verification")
	f.Bool("plaintext", false, "connect without TLS")
	f.String("token", "", "bearer token sent with the request")
	f.Duration("timeout", 10*time.Second, "request timeout")

	for _, name := range []string{"server", "ca-file", "server-name", "insecure", "plaintext", "token", "timeout"} {
		_ = c.v.BindPFlag(name, f.Lookup(name))
	}
	return cmd
}

func (c *cli) transportCredentials() (credentials.TransportCredentials, error) {
	if c.v.GetBool("plaintext") {
		if c.v.GetString("ca-file") != "" || c.v.GetBool("insecure") {
			return nil, errors.New("--plaintext cannot be combined with --ca-file or --insecure")
		}
		return insecure.NewCredentials(), nil
	}
	return tlsutil.ClientCredentials(tlsutil.ClientOptions{
		CAFile:             c.v.GetString("ca-file"),
		ServerName:         c.v.GetString("server-name"),
		InsecureSkipVerify: c.v.GetBool("insecure"),
	})
}

func (c *cli) runGet(cmd *cobra.Command, applicationID string) error {
	logger := c.logger(cmd)

	creds, err := c.transportCredentials()
	if err != nil {
		return err
	}
	conn, err := grpcPresentation.Dial(c.v.GetString("server"), creds)
	if err != nil {
		return err
	}
	client := grpcPresentation.NewClient(conn, c.v.GetString("token"))
	defer client.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), c.v.GetDuration("timeout"))
	defer cancel()

	logger.Debug("fetching assessment", "server", c.v.GetString("server"), "application_id", applicationID)
	resp, err := client.GetAssessment(ctx, applicationID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
