package server

import (
	"errors"
	"net/http"
	"net/mail"
	"regexp"
	"strings"

	"homebid/internal/format"
	"homebid/internal/identity"
	"homebid/pkg/types"
)

type registerResponse struct {
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Confirm string `json:"confirm"`
}

func (s *Service) handlePostRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reg := identity.Registration{
		GivenName:  strings.TrimSpace(r.FormValue("given_name")),
		FamilyName: strings.TrimSpace(r.FormValue("family_name")),
		Email:      strings.TrimSpace(r.FormValue("email")),
		Password:   r.FormValue("password"),
		UserType:   types.UserType(strings.TrimSpace(r.FormValue("user_type"))),
		Phone:      format.CleanPhoneNumber(r.FormValue("phone")),
	}

	fieldErrs := validateRegisterInput(reg, r.FormValue("confirm_password"))
	if phone := strings.TrimSpace(r.FormValue("phone")); phone != "" && !format.IsCompletePhone(phone) {
		fieldErrs["phone"] = "Enter a 10 digit phone number."
	}
	if len(fieldErrs) > 0 {
		s.logger.WithField("field_errors", fieldErrs).Info("validation errors during registration")
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "Please fix the highlighted fields.", Fields: fieldErrs})
		return
	}

	if err := s.identity.Register(ctx, reg); err != nil {
		message, fieldErrs := s.mapSignUpError(err)
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: message, Fields: fieldErrs})
		return
	}

	s.writeJSON(w, http.StatusCreated, registerResponse{
		Email:   reg.Email,
		Phone:   format.FormatPhoneInput(reg.Phone),
		Confirm: "/register/confirm",
	})
}

func (s *Service) handlePostRegisterConfirm(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	code := strings.TrimSpace(r.FormValue("code"))

	err := s.identity.Confirm(r.Context(), email, code)
	if err != nil {
		if errors.Is(err, identity.ErrCodeMismatch) {
			s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Error:  "Invalid confirmation code.",
				Fields: map[string]string{"code": "Check the code and try again."},
			})
			return
		}

		s.logger.WithError(err).Error("failed to confirm user signup")
		s.writeMessage(w, http.StatusBadGateway, "Unable to confirm account. Please try again.")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

var (
	hasUpperReg  = regexp.MustCompile(`[A-Z]`)
	hasLowerReg  = regexp.MustCompile(`[a-z]`)
	hasDigitReg  = regexp.MustCompile(`[0-9]`)
	hasSymbolReg = regexp.MustCompile(`[^A-Za-z0-9]`)
)

func validateRegisterInput(reg identity.Registration, confirmPassword string) map[string]string {
	errs := map[string]string{}

	if reg.GivenName == "" {
		errs["given_name"] = "First name is required."
	}

	if reg.FamilyName == "" {
		errs["family_name"] = "Last name is required."
	}

	if reg.Email == "" {
		errs["email"] = "Email is required."
	} else if _, err := mail.ParseAddress(reg.Email); err != nil {
		errs["email"] = "Enter a valid email address."
	}

	if !types.ValidUserType(reg.UserType) {
		errs["user_type"] = "Choose buyer or contractor."
	}

	if reg.Password != confirmPassword {
		errs["confirm_password"] = "Passwords do not match."
	}

	password := reg.Password
	if len(password) < 12 || !hasUpperReg.MatchString(password) || !hasLowerReg.MatchString(password) ||
		!hasDigitReg.MatchString(password) || !hasSymbolReg.MatchString(password) {
		errs["password"] = "Password must be at least 12 characters and include uppercase, lowercase, number, and symbol."
	}

	return errs
}

func (s *Service) mapSignUpError(err error) (string, map[string]string) {
	fieldErrs := map[string]string{}

	switch {
	case errors.Is(err, identity.ErrInvalidPassword):
		fieldErrs["password"] = "Password must include uppercase, lowercase, number, and symbol (min 12)."
		return "Please fix the highlighted fields.", fieldErrs
	case errors.Is(err, identity.ErrUserExists):
		fieldErrs["email"] = "An account with this email already exists."
		return "Try logging in instead.", fieldErrs
	case errors.Is(err, identity.ErrInvalidParameter):
		return "Some details are invalid. Please review and try again.", fieldErrs
	}

	s.logger.WithError(err).Error("unhandled signup error")

	return "Unable to create account right now. Please try again.", fieldErrs
}
