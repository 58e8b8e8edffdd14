package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/nikhilbhutani/meetingai/internal/deps"
	"github.com/nikhilbhutani/meetingai/pkg/executor"
)

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report whether the binaries the configured backends need are installed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			required := requiredBinaries(cfg)
			roles := make([]string, 0, len(required))
			for role := range required {
				roles = append(roles, role)
			}
			sort.Strings(roles)

			bins := make([]deps.Binary, 0, len(roles))
			for _, role := range roles {
				bins = append(bins, deps.Binary{Name: required[role], VersionFlag: versionFlag(role)})
			}

			out := cmd.OutOrStdout()
			if len(bins) == 0 {
				fmt.Fprintln(out, "no local binaries required by the configured backends")
				return nil
			}

			missing := 0
			for i, st := range deps.CheckAll(cmd.Context(), executor.New(), bins) {
				if !st.Installed {
					missing++
					fmt.Fprintf(out, "%-8s %-12s missing\n", roles[i], st.Name)
					continue
				}
				fmt.Fprintf(out, "%-8s %-12s %s %s\n", roles[i], st.Name, st.Path, st.Version)
			}
			if missing > 0 {
				return fmt.Errorf("%d required binaries not found on PATH", missing)
			}
			return nil
		},
	}
}

// ffmpeg spells its version flag with a single dash.
func versionFlag(role string) string {
	if role == "ffmpeg" {
		return "-version"
	}
	return "--version"
}
