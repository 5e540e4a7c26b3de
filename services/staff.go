package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"property-ops/database"
	apperrors "property-ops/errors"
	"property-ops/model"
)

var ErrInvalidCredentials = errors.New("invalid login or password")

type StaffProfileInput struct {
	Name         string              `json:"name" validate:"required,min=2"`
	Email        string              `json:"email" validate:"omitempty,email"`
	Phone        string              `json:"phone"`
	Role         string              `json:"role" validate:"required"`
	Skills       []string            `json:"skills"`
	WorkingHours *model.WorkingHours `json:"working_hours"`
	Location     *model.GeoPoint     `json:"location"`
	Rating       float64             `json:"rating" validate:"gte=0,lte=5"`
}

type CreateStaffInput struct {
	StaffProfileInput
	Login       string `json:"login" validate:"required,min=3"`
	Password    string `json:"password" validate:"required,min=6"`
	AccountRole string `json:"account_role" validate:"omitempty,oneof=admin manager staff"`
}

// OnboardingInput is the payload posted by the external onboarding form.
type OnboardingInput struct {
	StaffProfileInput
	Source string `json:"source"`
}

type StaffService struct {
	store   database.Store
	auditor *Auditor
	now     func() time.Time
}

func NewStaffService(store database.Store, auditor *Auditor) *StaffService {
	return &StaffService{store: store, auditor: auditor, now: time.Now}
}

func (s *StaffService) profile(in StaffProfileInput) (model.StaffMember, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	if err := ValidateStruct(in); err != nil {
		return model.StaffMember{}, err
	}
	hours := model.WorkingHours{Start: 8, End: 17}
	if in.WorkingHours != nil {
		hours = *in.WorkingHours
	}
	if hours.Start < 0 || hours.End > 24 || hours.Start >= hours.End {
		return model.StaffMember{}, fmt.Errorf("%w: WorkingHours: must satisfy 0 <= start < end <= 24", apperrors.ErrValidation)
	}
	skills := make([]string, 0, len(in.Skills))
	for _, skill := range in.Skills {
		if skill = strings.TrimSpace(skill); skill != "" {
			skills = append(skills, skill)
		}
	}
	return model.StaffMember{
		Id:           primitive.NewObjectID(),
		Name:         in.Name,
		Email:        strings.TrimSpace(in.Email),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         in.Role,
		Skills:       skills,
		WorkingHours: hours,
		Location:     in.Location,
		Rating:       in.Rating,
		Available:    true,
		CreatedAt:    s.now().UTC(),
	}, nil
}

// CreateAccount creates a login for a new staff member together with their profile.
func (s *StaffService) CreateAccount(ctx context.Context, actor string, in CreateStaffInput) (model.StaffMember, error) {
	in.Login = strings.TrimSpace(in.Login)
	if err := ValidateStruct(in); err != nil {
		return model.StaffMember{}, err
	}
	staff, err := s.profile(in.StaffProfileInput)
	if err != nil {
		return model.StaffMember{}, err
	}
	if _, err := s.store.GetUserData(ctx, in.Login); err == nil {
		return model.StaffMember{}, fmt.Errorf("login %v: %w", in.Login, apperrors.ErrAlreadyExists)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return model.StaffMember{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.StaffMember{}, fmt.Errorf("cannot hash password: %w", err)
	}
	role := in.AccountRole
	if role == "" {
		role = model.RoleStaff
	}
	user := model.UserData{
		Id:             primitive.NewObjectID(),
		Login:          in.Login,
		HashedPassword: string(hash),
		Role:           role,
		StaffId:        staff.Id.Hex(),
	}
	staff.UserId = user.Id.Hex()

	if err := s.store.InsertUser(ctx, user); err != nil {
		return model.StaffMember{}, fmt.Errorf("cannot create account: %w", err)
	}
	if err := s.store.InsertStaff(ctx, staff); err != nil {
		return model.StaffMember{}, fmt.Errorf("cannot create staff profile: %w", err)
	}
	s.auditor.Record(ctx, actor, "staff.created", "staff", staff.Id.Hex(), map[string]interface{}{
		"login": in.Login,
		"role":  staff.Role,
	})
	return staff, nil
}

// Onboard creates a staff profile without a login.
func (s *StaffService) Onboard(ctx context.Context, in OnboardingInput) (model.StaffMember, error) {
	staff, err := s.profile(in.StaffProfileInput)
	if err != nil {
		return model.StaffMember{}, err
	}
	if err := s.store.InsertStaff(ctx, staff); err != nil {
		return model.StaffMember{}, fmt.Errorf("cannot create staff profile: %w", err)
	}
	source := in.Source
	if source == "" {
		source = "webhook"
	}
	s.auditor.Record(ctx, source, "staff.onboarded", "staff", staff.Id.Hex(), map[string]interface{}{
		"role": staff.Role,
	})
	return staff, nil
}

func (s *StaffService) List(ctx context.Context) ([]model.StaffMember, error) {
	return s.store.ListStaff(ctx)
}

func (s *StaffService) Get(ctx context.Context, id string) (model.StaffMember, error) {
	return s.store.GetStaff(ctx, id)
}

func (s *StaffService) SetAvailability(ctx context.Context, actor, id string, available bool) (model.StaffMember, error) {
	staff, err := s.store.GetStaff(ctx, id)
	if err != nil {
		return model.StaffMember{}, err
	}
	staff.Available = available
	if err := s.store.UpdateStaff(ctx, staff); err != nil {
		return model.StaffMember{}, fmt.Errorf("cannot update staff: %w", err)
	}
	s.auditor.Record(ctx, actor, "staff.availability_changed", "staff", id, map[string]interface{}{
		"available": available,
	})
	return staff, nil
}

// Authenticate checks a login/password pair against the stored bcrypt hash.
func (s *StaffService) Authenticate(ctx context.Context, login, password string) (model.UserData, error) {
	user, err := s.store.GetUserData(ctx, strings.TrimSpace(login))
	if errors.Is(err, apperrors.ErrNotFound) {
		return model.UserData{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.UserData{}, err
	}
	if !isPasswordHashCorrect(user.HashedPassword, password) {
		return model.UserData{}, ErrInvalidCredentials
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
func (s *StaffService) EnsureAdmin(ctx context.Context, login, password string) (bool, error) {
	if login == "" || password == "" {
		return false, nil
	}
	if _, err := s.store.GetUserData(ctx, login); err == nil {
		return false, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return false, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	return true, s.store.InsertUser(ctx, model.UserData{
		Id:             primitive.NewObjectID(),
		Login:          login,
		HashedPassword: string(hash),
		Role:           model.RoleAdmin,
	})
}

func isPasswordHashCorrect(dbHash, pass string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(dbHash), []byte(pass))
	return err == nil
}
