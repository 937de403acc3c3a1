package orgs

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mockerhub/registry/pkg/registry"
	"github.com/mockerhub/registry/pkg/store"
)

// AvatarGenerator supplies organization avatars: a generated default or a
// client-uploaded image. The service only records the returned reference.
type AvatarGenerator interface {
	Generate(text, filename string) (string, error)
	SaveDataURI(dataURI, filename string) (string, error)
}

// Service implements organization operations.
type Service struct {
	orgs    store.Orgs
	users   store.Users
	avatars AvatarGenerator
	log     *logrus.Logger
}

// NewService creates an organization service.
func NewService(orgs store.Orgs, users store.Users, avatars AvatarGenerator, log *logrus.Logger) *Service {
	return &Service{orgs: orgs, users: users, avatars: avatars, log: log}
}

// Create makes a new organization owned by ownerID. The owner becomes the
// first member atomically with creation. image is an optional inline
// data:image/png URI; when empty an identicon is generated from the name.
func (s *Service) Create(ctx context.Context, ownerID int64, name, description, image string) (*registry.Organization, error) {
	if name == "" {
		return nil, registry.Validation("organization name must not be empty")
	}

	// Friendly pre-check; the unique index is the real guarantee.
	if _, err := s.orgs.GetByName(ctx, name); err == nil {
		return nil, registry.FieldTaken("organization name")
	} else if !registry.IsNotFound(err) {
		return nil, err
	}

	storedImage := ""
	if s.avatars != nil {
		if image != "" {
			path, err := s.avatars.SaveDataURI(image, "org_"+name)
			if err != nil {
				return nil, registry.Validation("invalid organization image: %v", err)
			}
			storedImage = path
		} else {
			path, err := s.avatars.Generate(name, "org_"+name)
			if err != nil {
				return nil, fmt.Errorf("failed to generate avatar: %w", err)
			}
			storedImage = path
		}
	}

	org := &registry.Organization{
		Name:        name,
		Description: description,
		Image:       storedImage,
		OwnerID:     ownerID,
	}
	if err := s.orgs.Create(ctx, org); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"org_id":   org.ID,
		"org_name": org.Name,
		"owner_id": org.OwnerID,
	}).Info("organization created")
	return org, nil
}

// AddMember adds userID to the organization. Only the organization owner may
// add members. Adding an existing member returns the existing edge.
func (s *Service) AddMember(ctx context.Context, requesterID, orgID, userID int64) (*registry.OrgMember, error) {
	org, err := s.orgs.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org.OwnerID != requesterID {
		return nil, registry.AccessDenied("you are not the owner of organization %s", org.Name)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	member, err := s.orgs.AddMember(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"org_id":  orgID,
		"user_id": userID,
	}).Info("organization member added")
	return member, nil
}

// GetByID retrieves an organization by id.
func (s *Service) GetByID(ctx context.Context, id int64) (*registry.Organization, error) {
	return s.orgs.GetByID(ctx, id)
}

// GetByName retrieves an organization by name.
func (s *Service) GetByName(ctx context.Context, name string) (*registry.Organization, error) {
	return s.orgs.GetByName(ctx, name)
}

// IsMember reports whether userID is a member of orgID.
func (s *Service) IsMember(ctx context.Context, userID, orgID int64) (bool, error) {
	return s.orgs.IsMember(ctx, userID, orgID)
}
