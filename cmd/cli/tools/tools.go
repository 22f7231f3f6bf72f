package tools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toolhub/toolhub/cmd/cli/config"
	"github.com/toolhub/toolhub/cmd/cli/output"
	"github.com/toolhub/toolhub/internal/models"
)

// ==========================
// Init Tools
// ==========================
func InitTools(rootCmd *cobra.Command) {

	toolsCmd := &cobra.Command{
		Use:   "tools",
		Short: "Manage catalog tools",
	}

	toolsCmd.AddCommand(
		listToolsCmd(),
		getToolCmd(),
		createToolCmd(),
		deleteToolCmd(),
	)

	rootCmd.AddCommand(toolsCmd)
}

// ==========================
// LIST
// ==========================
func listToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tools",
		Run: func(cmd *cobra.Command, args []string) {

			var tools []models.Tool
			if err := apiGet("/api/tools/", &tools); err != nil {
				fmt.Println(err)
				return
			}

			rows := make([][]interface{}, 0, len(tools))
			for _, t := range tools {
				rows = append(rows, []interface{}{t.ID, t.Class, t.Label, strings.Join(t.Owner, ", ")})
			}
			output.RenderTable([]string{"ID", "Class", "Label", "Owner"}, rows)
		},
	}
}

// ==========================
// GET
// ==========================
func getToolCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one tool as JSON",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {

			var tool models.Tool
			if err := apiGet("/api/tools/"+args[0]+"/", &tool); err != nil {
				fmt.Println(err)
				return
			}

			b, _ := json.MarshalIndent(tool, "", "  ")
			fmt.Println(string(b))
		},
	}
}

// ==========================
// CREATE
// ==========================
func createToolCmd() *cobra.Command {

	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tool from a JSON description file",
		Run: func(cmd *cobra.Command, args []string) {

			data, err := os.ReadFile(file)
			if err != nil {
				fmt.Println(err)
				return
			}

			token, err := config.ReadToken()
			if err != nil {
				fmt.Println("Please login first")
				return
			}

			req, _ := http.NewRequest("POST", config.APIURL()+"/api/tools/", bytes.NewBuffer(data))
			req.Header.Set("Authorization", "Token "+token)
			req.Header.Set("Content-Type", "application/json")

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				fmt.Println(err)
				return
			}
			defer resp.Body.Close()

			var out any
			json.NewDecoder(resp.Body).Decode(&out)
			b, _ := json.MarshalIndent(out, "", "  ")
			fmt.Println(string(b))
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "path to the tool JSON file")
	cmd.MarkFlagRequired("file")

	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteToolCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a tool",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {

			token, err := config.ReadToken()
			if err != nil {
				fmt.Println("Please login first")
				return
			}

			req, _ := http.NewRequest("DELETE", config.APIURL()+"/api/tools/"+args[0]+"/", nil)
			req.Header.Set("Authorization", "Token "+token)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				fmt.Println(err)
				return
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusNoContent {
				fmt.Println("Deleted.")
				return
			}
			fmt.Println("Delete failed, status", resp.StatusCode)
		},
	}
}

// apiGet fetches path with the stored token and decodes the JSON response into out.
func apiGet(path string, out interface{}) error {
	token, err := config.ReadToken()
	if err != nil {
		return fmt.Errorf("please login first")
	}

	req, err := http.NewRequest("GET", config.APIURL()+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Token "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API error: status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
