// Package company manages the per-user company profile and its logo.
package company

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/saramagdits/landscaping-saas/internal/storage"
	"github.com/saramagdits/landscaping-saas/internal/store"
)

// MaxLogoSize caps logo uploads at 5 MB.
const MaxLogoSize = 5 * 1024 * 1024

// ValidationError reports an invalid upload or update; handlers map it to
// a 400.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Service owns company profile reads, writes, and logo storage.
type Service struct {
	repo    store.CompanyRepository
	objects storage.ObjectStore
	log     zerolog.Logger
	now     func() time.Time
}

func NewService(repo store.CompanyRepository, objects storage.ObjectStore, log zerolog.Logger) *Service {
	return &Service{repo: repo, objects: objects, log: log, now: time.Now}
}

// Get returns the stored company profile, or a blank one when none exists.
func (s *Service) Get(ctx context.Context, userID string) (*store.CompanyInfo, error) {
	return s.repo.Get(ctx, userID)
}

// Update merges the supplied fields into the stored profile.
func (s *Service) Update(ctx context.Context, userID string, upd store.CompanyInfoUpdate) (*store.CompanyInfo, error) {
	if err := s.repo.Upsert(ctx, userID, upd); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

// UploadLogo validates the file, stores it, replaces any previous logo, and
// persists the new URL. Validation happens before anything touches the
// network.
func (s *Service) UploadLogo(ctx context.Context, userID, filename, contentType string, size int64, body io.Reader) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", &ValidationError{Reason: "logo must be an image"}
	}
	if size > MaxLogoSize {
		return "", &ValidationError{Reason: "logo must be 5MB or smaller"}
	}

	info, err := s.repo.Get(ctx, userID)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("company-logos/%s/logo_%d%s", userID, s.now().UnixMilli(), logoExt(filename, contentType))
	publicURL, err := s.objects.Put(ctx, key, contentType, body)
	if err != nil {
		return "", fmt.Errorf("upload logo: %w", err)
	}

	if info.LogoURL != "" {
		s.removeLogoObject(ctx, userID, info.LogoURL)
	}

	if err := s.repo.Upsert(ctx, userID, store.CompanyInfoUpdate{LogoURL: &publicURL}); err != nil {
		return "", err
	}
	s.log.Info().Str("user_id", userID).Str("key", key).Msg("company logo uploaded")
	return publicURL, nil
}

// DeleteLogo removes the stored logo object and clears the URL.
func (s *Service) DeleteLogo(ctx context.Context, userID string) error {
	info, err := s.repo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if info.LogoURL == "" {
		return nil
	}

	key, err := s.objects.KeyFromURL(info.LogoURL)
	if err != nil {
		return fmt.Errorf("resolve logo key: %w", err)
	}
	if err := s.objects.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete logo: %w", err)
	}

	empty := ""
	return s.repo.Upsert(ctx, userID, store.CompanyInfoUpdate{LogoURL: &empty})
}

// removeLogoObject deletes a superseded logo. Failure only costs storage,
// so it is logged and swallowed.
func (s *Service) removeLogoObject(ctx context.Context, userID, logoURL string) {
	key, err := s.objects.KeyFromURL(logoURL)
	if err == nil {
		err = s.objects.Delete(ctx, key)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to remove previous logo")
	}
}

// FormattedAddress joins the address parts that are present.
func FormattedAddress(info *store.CompanyInfo) string {
	var parts []string
	if info.Address != "" {
		parts = append(parts, info.Address)
	}
	locality := info.City
	if info.State != "" {
		if locality != "" {
			locality += ", " + info.State
		} else {
			locality = info.State
		}
	}
	if info.ZipCode != "" {
		if locality != "" {
			locality += " " + info.ZipCode
		} else {
			locality = info.ZipCode
		}
	}
	if locality != "" {
		parts = append(parts, locality)
	}
	return strings.Join(parts, ", ")
}

// DisplayName returns the company name or a generic fallback for documents.
func DisplayName(info *store.CompanyInfo) string {
	if info != nil && info.Name != "" {
		return info.Name
	}
	return "Landscape Pro"
}

func logoExt(filename, contentType string) string {
	if ext := path.Ext(filename); ext != "" {
		return ext
	}
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	default:
		return ".jpg"
	}
}
