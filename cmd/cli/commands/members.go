package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pventura/congregation-admin/pkg/core/catalog"
	"github.com/pventura/congregation-admin/pkg/core/services"
)

// ListMembersCmd creates the listMembers command
func ListMembersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listMembers",
		Short: "List the congregation roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			members, err := services.ListMembers(app.Ctx, app.Database)
			if err != nil {
				return err
			}
			if len(members) == 0 {
				fmt.Println("No members registered")
				return nil
			}

			for _, m := range members {
				var eligible []string
				for base, on := range m.Eligibility {
					if on {
						eligible = append(eligible, string(base))
					}
				}
				sort.Strings(eligible)
				fmt.Printf("%s  %-24s %-6s %s\n", m.ID, m.Name, m.Gender, strings.Join(eligible, ","))
			}
			return nil
		},
	}
}

// AddMemberCmd creates the addMember command
func AddMemberCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addMember",
		Short: "Add a member to the roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			gender, _ := cmd.Flags().GetString("gender")
			eligibleFlag, _ := cmd.Flags().GetString("eligible")
			relativesFlag, _ := cmd.Flags().GetString("relatives")

			eligibility := make(map[catalog.BaseFunction]bool)
			if eligibleFlag != "" {
				for _, part := range strings.Split(eligibleFlag, ",") {
					eligibility[catalog.BaseFunction(strings.TrimSpace(part))] = true
				}
			}
			var relatives []string
			if relativesFlag != "" {
				for _, part := range strings.Split(relativesFlag, ",") {
					relatives = append(relatives, strings.TrimSpace(part))
				}
			}

			member, err := services.AddMember(app.Ctx, app.Database, app.Logger, services.MemberInput{
				Name:        name,
				Gender:      gender,
				Eligibility: eligibility,
				Relatives:   relatives,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Added %s (%s)\n", member.Name, member.ID)
			return nil
		},
	}

	cmd.Flags().String("name", "", "Member name (required)")
	cmd.Flags().String("gender", "", "male or female (required)")
	cmd.Flags().String("eligible", "", "Comma-separated base functions, e.g. microphone1,audioVideo")
	cmd.Flags().String("relatives", "", "Comma-separated member ids with a family tie")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("gender")

	return cmd
}

// RemoveMemberCmd creates the removeMember command
func RemoveMemberCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "removeMember",
		Short: "Remove a member from the roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")
			if err := services.DeleteMember(app.Ctx, app.Database, app.Logger, id); err != nil {
				return err
			}
			fmt.Printf("Removed member %s\n", id)
			return nil
		},
	}
	cmd.Flags().String("id", "", "Member id (required)")
	cmd.MarkFlagRequired("id")
	return cmd
}
