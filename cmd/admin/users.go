package main

import (
	"context"
	"fmt"
	"strconv"

	"streamlearn/internal/model"
	"streamlearn/internal/service"

	"github.com/spf13/cobra"
)

var (
	adminName     string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin [email]",
	Short: "Create an administrator account",
	Long: `Create an active administrator. Without --password the account cannot sign in
until a password is set from the admin panel.

Examples:
  admin create-admin ana@example.com --name "Ana" --password s3cret!`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := current.svc.CreateUser(cmd.Context(), service.NewUserInput{
			Name:     adminName,
			Email:    args[0],
			Password: adminPassword,
			IsAdmin:  true,
		})
		if err != nil {
			return fmt.Errorf("failed to create admin: %w", err)
		}
		fmt.Printf("Admin created: %s (%s)\n", u.Email, u.UserID)
		return nil
	},
}

var grantCmd = &cobra.Command{
	Use:   "grant [email] [course-id]",
	Short: "Give a member access to a course",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeCourse(cmd.Context(), args, current.svc.GrantCourse, "Granted")
	},
}

var revokeCmd = &cobra.Command{
	Use:   "revoke [email] [course-id]",
	Short: "Remove a member's access to a course",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeCourse(cmd.Context(), args, current.svc.RevokeCourse, "Revoked")
	},
}

var setActiveCmd = &cobra.Command{
	Use:   "set-active [email] [true|false]",
	Short: "Activate or deactivate a member",
	Long: `Deactivated members cannot sign in.

Examples:
  admin set-active ana@example.com false`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		active, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("invalid active flag %q: %w", args[1], err)
		}
		u, err := lookupUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if _, err := current.svc.SetActive(cmd.Context(), u.UserID, active); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		fmt.Printf("%s active=%t\n", u.Email, active)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminName, "name", "Administrator", "display name")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "initial password")
}

type courseChange func(ctx context.Context, userID string, courseID int64) (*model.User, error)

func changeCourse(ctx context.Context, args []string, change courseChange, verb string) error {
	courseID, err := parseCourseID(args[1])
	if err != nil {
		return err
	}
	u, err := lookupUser(ctx, args[0])
	if err != nil {
		return err
	}
	updated, err := change(ctx, u.UserID, courseID)
	if err != nil {
		return fmt.Errorf("failed to update access: %w", err)
	}
	fmt.Printf("%s course %d for %s (courses: %v)\n", verb, courseID, updated.Email, updated.AccessibleCourses)
	return nil
}

func parseCourseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid course ID: %q", s)
	}
	return id, nil
}

func lookupUser(ctx context.Context, email string) (*model.User, error) {
	u, err := current.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("no user with email %s", email)
	}
	return u, nil
}
