package services

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"gorm.io/gorm"

	"github.com/IsaacCheng9/student-network-backend/internal/logger"
	"github.com/IsaacCheng9/student-network-backend/internal/repos"
	"github.com/IsaacCheng9/student-network-backend/internal/types"
)

const avatarSize = 512

// avatarPalette backs generated avatars; the color is picked by a
// hash of the username so regeneration is stable.
var avatarPalette = []color.NRGBA{
	{R: 0x2E, G: 0x7D, B: 0x32, A: 0xFF},
	{R: 0x15, G: 0x65, B: 0xC0, A: 0xFF},
	{R: 0x6A, G: 0x1B, B: 0x9A, A: 0xFF},
	{R: 0xC6, G: 0x28, B: 0x28, A: 0xFF},
	{R: 0xEF, G: 0x6C, B: 0x00, A: 0xFF},
	{R: 0x00, G: 0x83, B: 0x8F, A: 0xFF},
	{R: 0x45, G: 0x27, B: 0xA0, A: 0xFF},
	{R: 0xAD, G: 0x14, B: 0x57, A: 0xFF},
}

type AvatarService interface {
	// CreateForUser renders an initials avatar, writes it under the
	// media directory, and sets the user's avatar path. Inside a
	// registration transaction the user row does not exist yet, so
	// the path is only persisted when tx is nil.
	CreateForUser(ctx context.Context, tx *gorm.DB, user *types.User) error
	Generate(user *types.User) (bytes.Buffer, error)
}

type avatarService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
	mediaDir string
	fontFace font.Face
}

func NewAvatarService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, mediaDir string) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	if strings.TrimSpace(mediaDir) == "" {
		mediaDir = "media"
	}
	if err := os.MkdirAll(filepath.Join(mediaDir, "avatars"), 0o755); err != nil {
		return nil, fmt.Errorf("could not create media directory: %w", err)
	}

	face, err := loadFontFace(os.Getenv("AVATAR_FONT"), 206)
	if err != nil {
		return nil, fmt.Errorf("could not load avatar font: %w", err)
	}

	return &avatarService{
		db:       db,
		log:      serviceLog,
		userRepo: userRepo,
		mediaDir: mediaDir,
		fontFace: face,
	}, nil
}

func (as *avatarService) CreateForUser(ctx context.Context, tx *gorm.DB, user *types.User) error {
	buf, err := as.Generate(user)
	if err != nil {
		return err
	}

	// Versioned filename so cached copies of an older avatar are
	// never served for a regenerated one.
	relPath := filepath.Join("avatars", fmt.Sprintf("%s-%d.png", user.Username, time.Now().UnixNano()))
	fullPath := filepath.Join(as.mediaDir, relPath)
	if err := os.WriteFile(fullPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write avatar file: %w", err)
	}

	oldPath := user.AvatarPath
	user.AvatarPath = relPath
	if tx == nil {
		if err := as.userRepo.UpdateAvatarPath(ctx, nil, user.Username, relPath); err != nil {
			return fmt.Errorf("failed to store avatar path: %w", err)
		}
	}

	if oldPath != "" && oldPath != relPath {
		if rmErr := os.Remove(filepath.Join(as.mediaDir, oldPath)); rmErr != nil && !os.IsNotExist(rmErr) {
			as.log.Warn("failed to remove old avatar", "path", oldPath, "error", rmErr)
		}
	}
	return nil
}

func (as *avatarService) Generate(user *types.User) (bytes.Buffer, error) {
	dc := gg.NewContext(avatarSize, avatarSize)

	dc.DrawCircle(float64(avatarSize)/2, float64(avatarSize)/2, float64(avatarSize)/2)
	dc.Clip()

	dc.SetColor(pickAvatarColor(user.Username))
	dc.DrawRectangle(0, 0, float64(avatarSize), float64(avatarSize))
	dc.Fill()

	initials := computeInitials(user.FirstName, user.LastName)
	dc.SetFontFace(as.fontFace)
	tw, th := dc.MeasureString(initials)
	cx, cy := float64(avatarSize)/2, float64(avatarSize)/2

	dc.SetColor(color.White)
	dc.DrawString(initials, cx-(tw/2), cy+(th/2)-10)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

func pickAvatarColor(username string) color.NRGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return avatarPalette[h.Sum32()%uint32(len(avatarPalette))]
}

func computeInitials(first, last string) string {
	fInit := "?"
	if len(first) > 0 {
		fInit = strings.ToUpper(first[:1])
	}
	lInit := "?"
	if len(last) > 0 {
		lInit = strings.ToUpper(last[:1])
	}
	return fInit + lInit
}

// loadFontFace reads the TTF at fontPath, falling back to the bundled
// Go Regular face when no path is configured.
func loadFontFace(fontPath string, size float64) (font.Face, error) {
	fontBytes := goregular.TTF
	if strings.TrimSpace(fontPath) != "" {
		data, err := os.ReadFile(fontPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file: %w", err)
		}
		fontBytes = data
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}
