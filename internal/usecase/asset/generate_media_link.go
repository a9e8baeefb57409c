package asset

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/fhuszti/content-engine-go/internal/notifier"
	"github.com/fhuszti/content-engine-go/internal/port"
)

const uploadLinkExpiry = 15 * time.Minute

type mediaLinkGeneratorSrv struct {
	repo     port.AssetRepository
	storage  port.Storage
	notifier port.Notifier
	now      func() time.Time
}

// compile-time check: *mediaLinkGeneratorSrv must satisfy port.MediaLinkGenerator
var _ port.MediaLinkGenerator = (*mediaLinkGeneratorSrv)(nil)

func NewMediaLinkGenerator(repo port.AssetRepository, storage port.Storage, n port.Notifier) port.MediaLinkGenerator {
	return &mediaLinkGeneratorSrv{
		repo:     repo,
		storage:  storage,
		notifier: n,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// GenerateMediaLink issues a presigned upload link for the asset's media file
// and records the file's public address on the asset.
func (s *mediaLinkGeneratorSrv) GenerateMediaLink(ctx context.Context, in port.GenerateMediaLinkInput) (port.GenerateMediaLinkOutput, error) {
	name := path.Base(strings.TrimSpace(in.Name))
	if name == "" || name == "." || name == "/" || name == ".." {
		return port.GenerateMediaLinkOutput{}, ErrInvalidMediaName
	}

	a, err := s.repo.GetByID(ctx, in.AssetID)
	if err != nil {
		return port.GenerateMediaLinkOutput{}, mapNotFound(err)
	}

	key := fmt.Sprintf("assets/%s/%s", a.Serial, name)
	uploadURL, err := s.storage.GeneratePresignedUploadURL(ctx, key, uploadLinkExpiry)
	if err != nil {
		return port.GenerateMediaLinkOutput{}, err
	}

	mediaURL := s.storage.PublicURL(key)
	a.MediaURL = &mediaURL
	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return port.GenerateMediaLinkOutput{}, err
	}
	broadcast(ctx, s.notifier, notifier.EventAssetUpdated, a)

	return port.GenerateMediaLinkOutput{UploadURL: uploadURL, MediaURL: mediaURL}, nil
}

