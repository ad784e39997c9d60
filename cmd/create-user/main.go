package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"lexfirm_api_go/config"
	"lexfirm_api_go/db"
	"lexfirm_api_go/models"
	"lexfirm_api_go/repositories"
	"lexfirm_api_go/services"

	"golang.org/x/term"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(db.Options{
		Path:        cfg.DBPath,
		TursoURL:    cfg.TursoDatabaseURL,
		TursoToken:  cfg.TursoAuthToken,
		Environment: "production",
	}); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)

	// Get user details
	fmt.Println("=== Create New User ===")
	fmt.Println()

	name := prompt(reader, "Name: ")
	email := strings.ToLower(prompt(reader, "Email: "))
	role := prompt(reader, "Role [admin|abogado|asistente|viewer] (admin): ")
	if role == "" {
		role = models.RoleAdmin
	}

	// Get password securely
	password := readPassword("Password: ")
	if password != readPassword("Confirm password: ") {
		log.Fatal("Passwords do not match")
	}

	// Validate inputs
	if name == "" || email == "" || password == "" {
		log.Fatal("Name, email, and password are required")
	}
	if !strings.Contains(email, "@") {
		log.Fatal("Email is not valid")
	}
	if !models.IsValidRole(role) {
		log.Fatalf("Unknown role %q", role)
	}
	if err := services.ValidatePassword(password); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	repos := repositories.New(db.DB)

	// Check if user already exists
	if _, err := repos.Users.FindByEmail(ctx, email); err == nil {
		log.Fatalf("User with email %s already exists", email)
	}

	// Hash password
	hashedPassword, err := services.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hashedPassword,
		Role:     role,
		IsActive: true,
	}
	if err := repos.Users.Create(ctx, user); err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Println()
	fmt.Println("✓ User created successfully!")
	fmt.Printf("  ID: %s\n", user.ID)
	fmt.Printf("  Name: %s\n", user.Name)
	fmt.Printf("  Email: %s\n", user.Email)
	fmt.Printf("  Role: %s\n", user.Role)
	fmt.Println()
	fmt.Printf("Sign in with POST %s/api/auth/login\n", cfg.AppURL)
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	value, _ := reader.ReadString('\n')
	return strings.TrimSpace(value)
}

func readPassword(label string) string {
	fmt.Print(label)
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	fmt.Println() // New line after password input
	return string(passwordBytes)
}
