package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/EternisAI/node-status-server/internal/api/http/dto"
	"github.com/spf13/pflag"
)

const (
	defaultServerURL = "http://localhost:8080"
	clientTimeout    = 5 * time.Minute
)

var errUnknownSubcommand = errors.New("unknown subcommand")

const usage = `Usage:
  node-status-server                 serve the node status endpoint
  node-status-server provision       submit an API key to a running server
  node-status-server status          print the node status from a running server
  node-status-server help            show this message

Run "node-status-server <subcommand> --help" for subcommand flags.
`

func runSubcommand(name string, args []string, out io.Writer) error {
	switch name {
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	case "provision":
		return runProvision(args, out)
	case "status":
		return runStatus(args, out)
	default:
		return fmt.Errorf("%w %q (expected provision, status or help)", errUnknownSubcommand, name)
	}
}

// runProvision submits an API key to a running server.
func runProvision(args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("provision", pflag.ContinueOnError)
	server := fs.String("server", defaultServerURL, "Server URL")
	key := fs.String("key", "", "API key to submit")
	fs.SetOutput(out)
	if err := fs.Parse(args); err != nil {
		return helpOrError(err)
	}

	if *key == "" {
		return fmt.Errorf("--key is required")
	}

	reqBody, err := json.Marshal(dto.SubmitCredentialRequest{APIKey: *key})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	client := &http.Client{Timeout: clientTimeout}
	resp, err := client.Post(serverURL(*server), "application/json", bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	statusResp, err := readStatusResponse(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provisioning failed (HTTP %d): %s", resp.StatusCode, describe(statusResp))
	}

	fmt.Fprintln(out, "Provisioning successful!")
	fmt.Fprintf(out, "  %s\n", statusResp.Message)
	return nil
}

// runStatus prints the node status reported by a running server.
func runStatus(args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("status", pflag.ContinueOnError)
	server := fs.String("server", defaultServerURL, "Server URL")
	fs.SetOutput(out)
	if err := fs.Parse(args); err != nil {
		return helpOrError(err)
	}

	client := &http.Client{Timeout: clientTimeout}
	resp, err := client.Get(serverURL(*server))
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	statusResp, err := readStatusResponse(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("node status unavailable (HTTP %d): %s", resp.StatusCode, describe(statusResp))
	}

	fmt.Fprint(out, describe(statusResp))
	return nil
}

// helpOrError treats an explicit --help as success; pflag has already
// printed the flag defaults.
func helpOrError(err error) error {
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	return err
}

func serverURL(server string) string {
	return strings.TrimRight(server, "/") + "/"
}

func readStatusResponse(resp *http.Response) (*dto.StatusResponse, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var statusResp dto.StatusResponse
	if err := json.Unmarshal(body, &statusResp); err != nil {
		return nil, fmt.Errorf("failed to parse response (HTTP %d): %s", resp.StatusCode, string(body))
	}
	return &statusResp, nil
}

func describe(resp *dto.StatusResponse) string {
	if resp.Details != nil {
		return *resp.Details
	}
	return resp.Message
}
