package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/parvatislap/lapas/internal/enquiries"
)

var (
	enquiryHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	enquiryMetaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

var enquiriesCmd = &cobra.Command{
	Use:   "enquiries",
	Short: "List the enquiries prepared in the brochure",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := outboxPath()
		if path == "" {
			return errors.New("the enquiry log is disabled (enquiries.enabled: false)")
		}
		records, err := enquiries.Load(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, "No enquiries yet.")
			return nil
		}
		for _, r := range records {
			contact := strings.TrimSpace(strings.Join([]string{r.Email, r.Phone}, " "))
			fmt.Fprintln(out, enquiryHeaderStyle.Render(r.Name()))
			fmt.Fprintln(out, enquiryMetaStyle.Render(r.CreatedAt.Local().Format("2006-01-02 15:04")+"  "+contact))
			fmt.Fprintln(out, "  "+r.Message)
			fmt.Fprintln(out, enquiryMetaStyle.Render("  "+r.WhatsAppURL))
			fmt.Fprintln(out)
		}
		return nil
	},
}
