package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/identity"
	"github.com/invoicing/backend/internal/domain/shared/valueobject"
)

// ProfileService handles the authenticated user's own account
type ProfileService struct {
	userRepo identity.UserRepository
}

// NewProfileService creates a new profile service
func NewProfileService(userRepo identity.UserRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo}
}

// Get retrieves the user's profile
func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// Update applies a partial update to the user's profile
func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	name := user.Name
	if req.Name != nil {
		name = *req.Name
	}
	businessName := user.BusinessName
	if req.BusinessName != nil {
		businessName = *req.BusinessName
	}
	address := user.Address
	if req.Address != nil {
		address = *req.Address
	}
	phone := user.Phone
	if req.Phone != nil {
		phone = *req.Phone
	}
	currency := user.Currency
	if req.Currency != nil {
		currency = valueobject.Currency(*req.Currency)
	}

	if err := user.UpdateProfile(name, businessName, address, phone, currency); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	return ToUserResponse(user), nil
}

// ChangePassword changes the user's password after checking the current one
func (s *ProfileService) ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := user.ChangePassword(req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}

	return s.userRepo.Save(ctx, user)
}
