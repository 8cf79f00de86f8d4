package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	userDomain "github.com/allisson/assetvault/internal/user/domain"
	userUsecase "github.com/allisson/assetvault/internal/user/usecase"
)

// RunCreateCompany creates a company and prints its ID.
func RunCreateCompany(
	ctx context.Context,
	userUseCase userUsecase.UseCase,
	logger *slog.Logger,
	writer io.Writer,
	name string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	company, err := userUseCase.CreateCompany(ctx, userUsecase.CreateCompanyInput{Name: name})
	if err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}

	logger.Info("company created", slog.String("company_id", company.ID.String()))

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"id":   company.ID.String(),
			"name": company.Name,
		})
	}

	_, _ = fmt.Fprintln(writer, "Company created successfully")
	_, _ = fmt.Fprintf(writer, "ID: %s\n", company.ID)
	_, _ = fmt.Fprintf(writer, "Name: %s\n", company.Name)
	return nil
}

// CreateUserParams holds the flag values of the create-user command.
type CreateUserParams struct {
	CompanyID string
	Name      string
	Email     string
	Phone     string
	Role      string
	Password  string
}

// RunCreateUser creates a user inside an existing company. The password is
// stored as a go-pwdhash hash and never printed.
func RunCreateUser(
	ctx context.Context,
	userUseCase userUsecase.UseCase,
	logger *slog.Logger,
	writer io.Writer,
	params CreateUserParams,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	companyID, err := uuid.Parse(params.CompanyID)
	if err != nil {
		return fmt.Errorf("invalid company ID format: %w", err)
	}

	user, err := userUseCase.CreateUser(ctx, userUsecase.CreateUserInput{
		CompanyID: companyID,
		Name:      params.Name,
		Email:     params.Email,
		Phone:     params.Phone,
		Role:      userDomain.Role(params.Role),
		Password:  params.Password,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("user created",
		slog.String("user_id", user.ID.String()),
		slog.String("company_id", user.CompanyID.String()),
		slog.String("role", string(user.Role)),
	)

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"id":         user.ID.String(),
			"company_id": user.CompanyID.String(),
			"name":       user.Name,
			"email":      user.Email,
			"role":       string(user.Role),
		})
	}

	_, _ = fmt.Fprintln(writer, "User created successfully")
	_, _ = fmt.Fprintf(writer, "ID: %s\n", user.ID)
	_, _ = fmt.Fprintf(writer, "Company ID: %s\n", user.CompanyID)
	_, _ = fmt.Fprintf(writer, "Email: %s\n", user.Email)
	_, _ = fmt.Fprintf(writer, "Role: %s\n", user.Role)
	return nil
}
