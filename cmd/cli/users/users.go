package users

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/toolhub/toolhub/cmd/cli/config"
	"github.com/toolhub/toolhub/cmd/cli/output"
	"github.com/toolhub/toolhub/internal/models"
)

// ==========================
// Init Users
// ==========================
func InitUsers(rootCmd *cobra.Command) {

	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage catalog users",
	}

	usersCmd.AddCommand(
		listUsersCmd(),
		createUserCmd(),
	)

	rootCmd.AddCommand(usersCmd)
}

// ==========================
// LIST
// ==========================
func listUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		Run: func(cmd *cobra.Command, args []string) {

			token, err := config.ReadToken()
			if err != nil {
				fmt.Println("Please login first")
				return
			}

			req, _ := http.NewRequest("GET", config.APIURL()+"/api/users/", nil)
			req.Header.Set("Authorization", "Token "+token)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				fmt.Println(err)
				return
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				fmt.Println("API error: status", resp.StatusCode)
				return
			}

			var out struct {
				Items []models.User `json:"items"`
				Total int           `json:"total"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				fmt.Println(err)
				return
			}

			rows := make([][]interface{}, 0, len(out.Items))
			for _, u := range out.Items {
				rows = append(rows, []interface{}{u.ID, u.Username, u.Email, u.IsActive, u.IsStaff})
			}
			output.RenderTable([]string{"ID", "Username", "Email", "Active", "Staff"}, rows)
		},
	}
}

// ==========================
// CREATE
// ==========================
func createUserCmd() *cobra.Command {

	var username, email, name, password string
	var staff bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user (staff only)",
		RunE: func(cmd *cobra.Command, args []string) error {

			token, err := config.ReadToken()
			if err != nil {
				return fmt.Errorf("please login first")
			}

			payload := map[string]interface{}{
				"username": username,
				"email":    email,
				"name":     name,
				"password": password,
				"is_staff": staff,
			}
			body, _ := json.Marshal(payload)

			req, _ := http.NewRequest("POST", config.APIURL()+"/api/users/", bytes.NewBuffer(body))
			req.Header.Set("Authorization", "Token "+token)
			req.Header.Set("Content-Type", "application/json")

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			var out any
			json.NewDecoder(resp.Body).Decode(&out)
			b, _ := json.MarshalIndent(out, "", "  ")
			fmt.Println(string(b))
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().BoolVar(&staff, "staff", false, "grant staff rights")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")

	return cmd
}
