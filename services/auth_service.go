package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-frontdesk/models"
	"github.com/yeremiapane/restaurant-frontdesk/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxTokenLength matches the RevokedToken primary key column.
const maxTokenLength = 512

type TokenPair struct {
	AccessToken      string     `json:"access_token"`
	AccessExpiresAt  time.Time  `json:"access_expires_at"`
	RefreshToken     string     `json:"refresh_token,omitempty"`
	RefreshExpiresAt *time.Time `json:"refresh_expires_at,omitempty"`
}

// AuthService menerbitkan, memverifikasi dan mencabut token sesi.
type AuthService struct {
	db         *gorm.DB
	signer     *utils.TokenSigner
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewAuthService(db *gorm.DB, signer *utils.TokenSigner, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		db:         db,
		signer:     signer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// WithClock sets the time source for both issuance and verification.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	s.signer.WithClock(now)
	return s
}

// Issue -> access token, plus refresh token bila rememberMe
func (s *AuthService) Issue(principalID uint, rememberMe bool) (TokenPair, error) {
	access, accessExp, err := s.signer.GenerateToken(principalID, utils.AccessToken, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	pair := TokenPair{AccessToken: access, AccessExpiresAt: accessExp}

	if rememberMe {
		refresh, refreshExp, err := s.signer.GenerateToken(principalID, utils.RefreshToken, s.refreshTTL)
		if err != nil {
			return TokenPair{}, err
		}
		pair.RefreshToken = refresh
		pair.RefreshExpiresAt = &refreshExp
	}
	return pair, nil
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// equalizeTiming spends one bcrypt comparison so unknown usernames cost the
// same as wrong passwords.
func equalizeTiming(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// Login memeriksa username/password. Username tidak dikenal, password salah,
// dan akun non-aktif semuanya menghasilkan ErrUnauthorized yang sama.
func (s *AuthService) Login(ctx context.Context, username, password string, rememberMe bool) (TokenPair, *models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		equalizeTiming(password)
		return TokenPair{}, nil, s.reject("unknown_username", username, nil)
	}
	if err != nil {
		return TokenPair{}, nil, fmt.Errorf("load user %q: %w", username, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return TokenPair{}, nil, s.reject("bad_password", username, nil)
	}
	if !user.CanAuthenticate() {
		return TokenPair{}, nil, s.reject("inactive", username, nil)
	}

	pair, err := s.Issue(user.ID, rememberMe)
	if err != nil {
		return TokenPair{}, nil, err
	}
	utils.InfoLogger.WithFields(logrus.Fields{"user_id": user.ID, "remember_me": rememberMe}).Info("login succeeded")
	return pair, &user, nil
}

// Verify accepts access tokens only.
func (s *AuthService) Verify(ctx context.Context, token string) (*models.User, error) {
	return s.verify(ctx, token, utils.AccessToken)
}

// AdminGate is Verify plus the is_admin flag.
func (s *AuthService) AdminGate(ctx context.Context, token string) (*models.User, error) {
	user, err := s.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin {
		return nil, s.reject("not_admin", user.Username, nil)
	}
	return user, nil
}

// Refresh memberi access token baru. Refresh token tidak dirotasi.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	user, err := s.verify(ctx, refreshToken, utils.RefreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	return s.Issue(user.ID, false)
}

// Revoke adds token to the revocation set. Revoking the same token again is
// a no-op. Tokens that verify are keyed by jti and kept until their own exp
// (capped at now+refreshTTL); anything else is kept until now+refreshTTL.
func (s *AuthService) Revoke(ctx context.Context, token string) error {
	if token == "" || len(token) > maxTokenLength {
		return utils.NewError(utils.CodeValidation, "token is required")
	}

	now := s.now()
	key, claims := s.revocationKey(token)
	expiresAt := now.Add(s.refreshTTL)
	if claims != nil && claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(expiresAt) {
		expiresAt = claims.ExpiresAt.Time
	}

	entry := models.RevokedToken{Token: key, RevokedAt: now, ExpiresAt: expiresAt}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// RevokeRefresh revokes a refresh token only when it belongs to principalID.
func (s *AuthService) RevokeRefresh(ctx context.Context, token string, principalID uint) error {
	claims, err := s.signer.ParseToken(token)
	if err != nil {
		return s.reject("parse", "", err)
	}
	if claims.Kind != utils.RefreshToken || claims.UserID != principalID {
		return s.reject("not_owner", claims.Subject, nil)
	}
	return s.Revoke(ctx, token)
}

func (s *AuthService) IsRevoked(ctx context.Context, token string) (bool, error) {
	key, _ := s.revocationKey(token)
	return s.isRevokedKey(ctx, key)
}

func (s *AuthService) isRevokedKey(ctx context.Context, key string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.RevokedToken{}).Where("token = ?", key).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return count > 0, nil
}

// revocationKey returns the jti key for tokens signed by us, so every encoding
// of one token maps to the same entry. Unverifiable strings key on themselves.
func (s *AuthService) revocationKey(token string) (string, *utils.CustomClaims) {
	claims, err := s.signer.ParseToken(token)
	if err != nil || claims.ID == "" {
		return token, nil
	}
	return jtiKey(claims.ID), claims
}

func jtiKey(id string) string { return "jti:" + id }

// PurgeExpiredRevocations drops entries whose token has expired on its own.
func (s *AuthService) PurgeExpiredRevocations(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at < ?", s.now()).Delete(&models.RevokedToken{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge revocations: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *AuthService) verify(ctx context.Context, token string, kind utils.TokenKind) (*models.User, error) {
	if token == "" {
		return nil, s.reject("missing", "", nil)
	}

	claims, err := s.signer.ParseToken(token)
	if err != nil {
		return nil, s.reject("parse", "", err)
	}
	if claims.Kind != kind {
		return nil, s.reject("wrong_kind", string(claims.Kind), nil)
	}

	if claims.ID == "" {
		return nil, s.reject("missing_jti", claims.Subject, nil)
	}
	revoked, err := s.isRevokedKey(ctx, jtiKey(claims.ID))
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, s.reject("revoked", claims.Subject, nil)
	}

	var user models.User
	err = s.db.WithContext(ctx).Scopes(models.NotDeleted).First(&user, claims.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, s.reject("unknown_subject", claims.Subject, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("load principal %d: %w", claims.UserID, err)
	}
	if !user.CanAuthenticate() {
		return nil, s.reject("inactive", claims.Subject, nil)
	}
	return &user, nil
}

// reject logs the concrete cause at debug level only; callers always see ErrUnauthorized.
func (s *AuthService) reject(reason, subject string, cause error) error {
	entry := utils.InfoLogger.WithFields(logrus.Fields{"reason": reason, "subject": subject})
	if cause != nil {
		entry = entry.WithError(cause)
	}
	entry.Debug("auth rejected")
	return utils.ErrUnauthorized
}
