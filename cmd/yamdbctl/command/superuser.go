package command

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"yamdb/database"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/microservices/http-api/service"
)

var createSuperuserCmd = &cobra.Command{
	Use:   "createsuperuser",
	Short: "Create an administrator account",
	Long: `Create a user with the admin role and the superuser flag set.
The account has no password; sign in through /auth/signup/ and /auth/token/
with the same username and email.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		if err := validateEmail(email); err != nil {
			return err
		}

		db, logger, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		users := service.NewUserService(repository.NewUserRepository(db))
		user, err := users.CreateSuperuser(cmd.Context(), username, email)
		if err != nil {
			return fmt.Errorf("create superuser: %w", err)
		}

		logger.Info("superuser_created", "username", user.Username)
		fmt.Printf("✓ Superuser %q created.\n", user.Username)
		return nil
	},
}

func validateEmail(email string) error {
	if err := validator.New().Var(email, "required,email,max=254"); err != nil {
		return fmt.Errorf("invalid --email %q", email)
	}
	return nil
}

func init() {
	createSuperuserCmd.Flags().String("username", "", "username of the new account")
	createSuperuserCmd.Flags().String("email", "", "email of the new account")
	_ = createSuperuserCmd.MarkFlagRequired("username")
	_ = createSuperuserCmd.MarkFlagRequired("email")
}
