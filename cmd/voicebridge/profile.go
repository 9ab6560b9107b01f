package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	voicebridge "github.com/ayreact/VoiceBridge"
	"github.com/spf13/cobra"
)

var (
	profileShowJSON bool

	updateUsername   string
	updateEmail      string
	updateDeviceType string
	updateLanguage   string
	updatePhone      string
)

func init() {
	profileShowCmd.Flags().BoolVar(&profileShowJSON, "json", false, "Output raw JSON")

	profileUpdateCmd.Flags().StringVar(&updateUsername, "username", "", "New username")
	profileUpdateCmd.Flags().StringVar(&updateEmail, "email", "", "New email address")
	profileUpdateCmd.Flags().StringVar(&updateDeviceType, "device-type", "", "Device type: smartphone, feature-phone")
	profileUpdateCmd.Flags().StringVar(&updateLanguage, "language", "", "Assistant language: en, yo, ha, ig")
	profileUpdateCmd.Flags().StringVar(&updatePhone, "phone", "", "Phone number")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileUpdateCmd)
	rootCmd.AddCommand(profileCmd)
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View or update the user profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current user profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _ := newClient()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		user, err := client.Profile(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch profile: %w", err)
		}

		if profileShowJSON {
			data, err := json.MarshalIndent(user, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal profile: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		printUser(user)
		return nil
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update profile fields",
	Long:  "Update one or more profile fields. Only the flags you pass are changed.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var upd voicebridge.ProfileUpdate
		if cmd.Flags().Changed("username") {
			upd.Username = &updateUsername
		}
		if cmd.Flags().Changed("email") {
			upd.Email = &updateEmail
		}
		if cmd.Flags().Changed("device-type") {
			upd.DeviceType = &updateDeviceType
		}
		if cmd.Flags().Changed("language") {
			upd.Language = &updateLanguage
		}
		if cmd.Flags().Changed("phone") {
			upd.PhoneNumber = &updatePhone
		}

		client, _ := newClient()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		user, err := client.UpdateProfile(ctx, upd)
		if err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}

		fmt.Println("Profile updated.")
		printUser(user)
		return nil
	},
}

func printUser(user *voicebridge.User) {
	fmt.Printf("Username:  %s\n", user.Username)
	fmt.Printf("Email:     %s\n", user.Email)
	fmt.Printf("Device:    %s\n", user.Profile.DeviceType)
	fmt.Printf("Language:  %s\n", user.Profile.Language)
	if user.Profile.PhoneNumber != "" {
		fmt.Printf("Phone:     %s\n", user.Profile.PhoneNumber)
	}
}
