package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"shopapi/internal/domain/model"
	repo "shopapi/internal/repository"
)

// 入力チェックの約束（実装は validator パッケージ）
type UserValidator interface {
	ValidateRegister(email, password, fullName string) error
	ValidatePassword(password string) error
}

type UserUsecase struct {
	tx        repo.TransactionManager
	validator UserValidator
	hasher    PasswordHasher
	otp       OTPGenerator
	idGen     IDGenerator
	clock     Clock
	notifier  Notifier
	tokens    TokenIssuer
}

// DI
func NewUserUsecase(
	tx repo.TransactionManager,
	validator UserValidator,
	hasher PasswordHasher,
	otp OTPGenerator,
	idGen IDGenerator,
	clock Clock,
	notifier Notifier,
	tokens TokenIssuer,
) *UserUsecase {
	return &UserUsecase{
		tx:        tx,
		validator: validator,
		hasher:    hasher,
		otp:       otp,
		idGen:     idGen,
		clock:     clock,
		notifier:  notifier,
		tokens:    tokens,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

type VerifyInput struct {
	Email string
	OTP   string
}

type ResetPasswordInput struct {
	Email       string
	OTP         string
	NewPassword string
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresAt   time.Time  `json:"expires_at"`
	User        model.User `json:"user"`
}

type UpdateProfileInput struct {
	FullName string
	Picture  string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// 会員登録。未有効化のユーザーを作り、OTPを通知する
func (u *UserUsecase) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	if err := u.validator.ValidateRegister(in.Email, in.Password, in.FullName); err != nil {
		return model.User{}, invalidArgument(err.Error())
	}
	email := normalizeEmail(in.Email)

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, internalError(err)
	}
	code, err := u.otp.NewOTP()
	if err != nil {
		return model.User{}, internalError(err)
	}

	var out model.User
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		_, err := r.Users().FindByEmail(ctx, email)
		if err == nil {
			return conflict("email already registered")
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return internalError(err)
		}

		user := model.User{
			ID:           u.idGen.NewID(),
			Email:        email,
			FullName:     strings.TrimSpace(in.FullName),
			PasswordHash: hashed,
			Role:         model.RoleUser,
			IsActive:     false,
			OTP:          code,
		}
		if err := r.Users().Create(ctx, user); err != nil {
			return fromCreate(err, "email already registered")
		}
		out, err = r.Users().FindByID(ctx, user.ID)
		return fromRepo(err, msgUserNotFound)
	})
	if err != nil {
		return model.User{}, err
	}

	u.sendOTP(ctx, model.EventUserRegistered, out, code)
	return out, nil
}

// OTPが一致すれば有効化
func (u *UserUsecase) Verify(ctx context.Context, in VerifyInput) (model.User, error) {
	var out model.User
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := u.findByEmailWithOTP(ctx, r, in.Email, in.OTP)
		if err != nil {
			return err
		}
		user.IsActive = true
		user.OTP = ""
		if err := r.Users().Update(ctx, user); err != nil {
			return fromRepo(err, msgUserNotFound)
		}
		out = user
		return nil
	})
	if err != nil {
		return model.User{}, err
	}
	return out, nil
}

// メールとパスワードを確認してアクセストークンを返す。
// メール違い・パスワード違いは同じ 401、未有効化は 403
func (u *UserUsecase) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return LoginResult{}, invalidArgument("email and password are required")
	}
	if u.tokens == nil {
		return LoginResult{}, internalError(errNoSigningSecret)
	}

	var user model.User
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		found, err := r.Users().FindByEmail(ctx, normalizeEmail(in.Email))
		if errors.Is(err, repo.ErrNotFound) {
			return newKindError(ErrUnauthorized, msgBadCredentials)
		}
		if err != nil {
			return internalError(err)
		}
		user = found
		return nil
	})
	if err != nil {
		return LoginResult{}, err
	}

	if err := u.hasher.Compare(user.PasswordHash, in.Password); err != nil {
		return LoginResult{}, newKindError(ErrUnauthorized, msgBadCredentials)
	}
	if !user.IsActive {
		return LoginResult{}, newKindError(ErrForbidden, "account is not verified")
	}

	token, expiresAt, err := u.tokens.Issue(user.ID, user.Role, u.clock.Now())
	if err != nil {
		return LoginResult{}, internalError(err)
	}
	return LoginResult{AccessToken: token, TokenType: "Bearer", ExpiresAt: expiresAt, User: user}, nil
}

// 新しいOTPを発行して通知する
func (u *UserUsecase) ForgotPassword(ctx context.Context, email string) error {
	code, err := u.otp.NewOTP()
	if err != nil {
		return internalError(err)
	}

	var user model.User
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		found, err := r.Users().FindByEmail(ctx, normalizeEmail(email))
		if err != nil {
			return fromRepo(err, msgUserNotFound)
		}
		found.OTP = code
		if err := r.Users().Update(ctx, found); err != nil {
			return fromRepo(err, msgUserNotFound)
		}
		user = found
		return nil
	})
	if err != nil {
		return err
	}

	u.sendOTP(ctx, model.EventPasswordResetRequired, user, code)
	return nil
}

func (u *UserUsecase) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	if err := u.validator.ValidatePassword(in.NewPassword); err != nil {
		return invalidArgument(err.Error())
	}
	hashed, err := u.hasher.Hash(in.NewPassword)
	if err != nil {
		return internalError(err)
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := u.findByEmailWithOTP(ctx, r, in.Email, in.OTP)
		if err != nil {
			return err
		}
		user.PasswordHash = hashed
		user.OTP = ""
		return fromRepo(r.Users().Update(ctx, user), msgUserNotFound)
	})
}

func (u *UserUsecase) Get(ctx context.Context, userID string) (model.User, error) {
	var out model.User
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := findUser(ctx, r, userID)
		if err != nil {
			return err
		}
		out = user
		return nil
	})
	if err != nil {
		return model.User{}, err
	}
	return out, nil
}

// 空でない項目だけ更新する
func (u *UserUsecase) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (model.User, error) {
	var out model.User
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := findUser(ctx, r, userID)
		if err != nil {
			return err
		}
		if name := strings.TrimSpace(in.FullName); name != "" {
			user.FullName = name
		}
		if pic := strings.TrimSpace(in.Picture); pic != "" {
			user.Picture = pic
		}
		if err := r.Users().Update(ctx, user); err != nil {
			return fromRepo(err, msgUserNotFound)
		}
		out, err = r.Users().FindByID(ctx, userID)
		return fromRepo(err, msgUserNotFound)
	})
	if err != nil {
		return model.User{}, err
	}
	return out, nil
}

// 注文があるユーザーは消せない。レビューとカートは一緒に消す
func (u *UserUsecase) Delete(ctx context.Context, userID string) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := findUser(ctx, r, userID); err != nil {
			return err
		}

		orders, err := r.Orders().ListByUserID(ctx, userID)
		if err != nil {
			return internalError(err)
		}
		if len(orders) > 0 {
			return conflict("user has orders")
		}

		reviews, err := r.Reviews().ListByUserID(ctx, userID)
		if err != nil {
			return internalError(err)
		}
		for _, rv := range reviews {
			if err := r.Reviews().Delete(ctx, rv.ID); err != nil {
				return fromRepo(err, msgReviewNotFound)
			}
		}

		return fromRepo(r.Users().Delete(ctx, userID), msgUserNotFound)
	})
}

func findUser(ctx context.Context, r repo.TxRepos, userID string) (model.User, error) {
	if !isUUID(userID) {
		return model.User{}, notFound(msgUserNotFound)
	}
	user, err := r.Users().FindByID(ctx, userID)
	if err != nil {
		return model.User{}, fromRepo(err, msgUserNotFound)
	}
	return user, nil
}

func (u *UserUsecase) findByEmailWithOTP(ctx context.Context, r repo.TxRepos, email, code string) (model.User, error) {
	user, err := r.Users().FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return model.User{}, fromRepo(err, msgUserNotFound)
	}
	code = strings.TrimSpace(code)
	if user.OTP == "" || subtle.ConstantTimeCompare([]byte(user.OTP), []byte(code)) != 1 {
		return model.User{}, invalidArgument("invalid otp")
	}
	return user, nil
}

// OTPの送信は購読側（メール送信）に任せる
func (u *UserUsecase) sendOTP(ctx context.Context, typ model.EventType, user model.User, code string) {
	notify(ctx, u.notifier, model.Event{
		EventID:   u.idGen.NewID(),
		Type:      typ,
		UserID:    user.ID,
		CreatedAt: u.clock.Now(),
		Payload: map[string]any{
			"email":     user.Email,
			"full_name": user.FullName,
			"otp":       code,
		},
	})
}
