package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

// BaseURLFunc provides the base HTTP API URL (e.g., from env or flag).
type BaseURLFunc func() string

// NewIDCommand constructs the `id` command group and subcommands.
func NewIDCommand(baseURL BaseURLFunc) *cobra.Command {
	idCmd := &cobra.Command{Use: "id", Short: "Identifier operations"}
	idCmd.AddCommand(
		newIDGenCommand(baseURL),
		newIDDecodeCommand(baseURL),
		newIDInspectCommand(baseURL),
	)
	return idCmd
}

func newIDGenCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate identifiers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			count, _ := cmd.Flags().GetInt("count")
			var resp struct {
				IDs []string `json:"ids"`
			}
			if err := postJSON(baseURL()+"/v1/ids/generate", map[string]int{"count": count}, &resp); err != nil {
				return err
			}
			for _, id := range resp.IDs {
				fmt.Println(id)
			}
			return nil
		},
	}
	cmd.Flags().Int("count", 1, "Number of identifiers to generate")
	return cmd
}

func newIDDecodeCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <id>",
		Short: "Decode an identifier into its fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp json.RawMessage
			if err := postJSON(baseURL()+"/v1/ids/decode", map[string]string{"id": args[0]}, &resp); err != nil {
				return err
			}
			return printIndented(resp)
		},
	}
}

func newIDInspectCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <id>...",
		Short: "Decode identifiers, optionally keeping only those matching a CEL filter",
		Long: "Decode one or more identifiers into their fields. With --filter, only\n" +
			"identifiers matching the CEL expression are printed; available variables\n" +
			"are timestamp, node, slot, counter, time_ms and now_ms.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, _ := cmd.Flags().GetString("filter")
			var resp json.RawMessage
			body := map[string]any{"ids": args, "filter": filter}
			if err := postJSON(baseURL()+"/v1/ids/inspect", body, &resp); err != nil {
				return err
			}
			return printIndented(resp)
		},
	}
	cmd.Flags().String("filter", "", "CEL expression over decoded fields (e.g. 'node == 3 && counter > 10')")
	return cmd
}

// postJSON posts body and decodes the JSON response into out. Non-2xx
// responses surface the server's error message.
func postJSON(url string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode/100 != 2 {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			return fmt.Errorf("server: %s", e.Error)
		}
		return fmt.Errorf("server: %s", resp.Status)
	}
	return json.Unmarshal(data, out)
}

func printIndented(raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(os.Stdout)
	return err
}
