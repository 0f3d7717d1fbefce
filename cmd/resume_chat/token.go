package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-chat/internal/config"
	"github.com/jonathan/resume-chat/internal/server"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development session token",
	Long:  "Signs a bearer token with JWT_SECRET for calling the API locally. Production tokens come from the identity provider.",
	RunE:  runToken,
}

var (
	tokenUserID string
	tokenEmail  string
	tokenName   string
)

func init() {
	tokenCmd.Flags().StringVarP(&tokenUserID, "user", "u", "", "User ID (UUID); a random one is generated when empty")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "Email claim")
	tokenCmd.Flags().StringVar(&tokenName, "name", "", "Name claim")

	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return err
	}
	token, userID, err := mintToken(jwtConfig, tokenUserID, tokenEmail, tokenName)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "user: %s\n", userID)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

func mintToken(cfg *config.JWTConfig, rawUserID, email, name string) (string, uuid.UUID, error) {
	userID := uuid.New()
	if rawUserID != "" {
		parsed, err := uuid.Parse(rawUserID)
		if err != nil {
			return "", uuid.Nil, fmt.Errorf("invalid user ID: %w", err)
		}
		userID = parsed
	}
	token, err := server.NewJWTService(cfg).GenerateToken(userID, email, name)
	if err != nil {
		return "", uuid.Nil, err
	}
	return token, userID, nil
}
