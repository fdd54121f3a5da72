package usecase

import (
	"context"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/festal/festal-backend/internal/application/dto"
	"github.com/festal/festal-backend/internal/domain"
	"github.com/festal/festal-backend/internal/domain/access"
	"github.com/festal/festal-backend/internal/domain/entity"
	"github.com/festal/festal-backend/internal/domain/repository"
)

const minPasswordLength = 8

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{3,50}$`)

// PasswordHasher genera el hash que se almacena (bcrypt en producción).
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	tx     repository.TxRunner
	gate   *access.Gate
	hasher PasswordHasher
	now    func() time.Time
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(tx repository.TxRunner, gate *access.Gate, hasher PasswordHasher) *UserUseCase {
	return &UserUseCase{tx: tx, gate: gate, hasher: hasher, now: time.Now}
}

// List lista usuarios (solo admin).
func (uc *UserUseCase) List(ctx context.Context, id entity.Identity, in dto.UserListRequest) (*dto.UserListResponse, error) {
	if _, err := uc.gate.Check(id, access.ResourceUser, access.ActionList); err != nil {
		return nil, err
	}
	page := PageOf(in.PageRequest)
	filter := repository.UserFilter{
		Department: entity.NormalizeDepartment(in.Department),
		Role:       in.Role,
		Page:       page,
	}
	var list []*entity.User
	err := uc.tx.ReadOnly(ctx, func(r repository.Repos) error {
		var err error
		list, err = r.Users.List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *ToUserResponse(u))
	}
	return &dto.UserListResponse{Items: items, Page: pageResponse(page)}, nil
}

// Get obtiene un usuario. El rol user solo puede leer su propio registro.
func (uc *UserUseCase) Get(ctx context.Context, id entity.Identity, userID string) (*dto.UserResponse, error) {
	grant, err := uc.gate.Check(id, access.ResourceUser, access.ActionRead)
	if err != nil {
		return nil, err
	}
	if err := grant.AllowsUser(userID); err != nil {
		return nil, err
	}
	var user *entity.User
	err = uc.tx.ReadOnly(ctx, func(r repository.Repos) error {
		var err error
		user, err = r.Users.GetByID(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return ToUserResponse(user), nil
}

// Create crea un usuario con la contraseña hasheada.
func (uc *UserUseCase) Create(ctx context.Context, id entity.Identity, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if _, err := uc.gate.Check(id, access.ResourceUser, access.ActionCreate); err != nil {
		return nil, err
	}
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Role == "" {
		in.Role = entity.RoleUser
	}
	if err := validateUsername(in.Username); err != nil {
		return nil, err
	}
	if err := validateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	if !entity.IsValidRole(in.Role) {
		return nil, domain.NewValidationError("role", "admin または user を指定してください")
	}
	department := entity.NormalizeDepartment(in.Department)
	if err := RequireText("department", department, 100); err != nil {
		return nil, err
	}
	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Department:   department,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		existing, err := r.Users.GetByUsername(ctx, user.Username)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.NewConflictError("ユーザー名は既に登録されています")
		}
		return r.Users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// Update actualiza un usuario. Sobre el propio registro sin rol admin solo se
// permiten email y password.
func (uc *UserUseCase) Update(ctx context.Context, id entity.Identity, userID string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	grant, err := uc.gate.Check(id, access.ResourceUser, access.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if err := grant.AllowsUser(userID); err != nil {
		return nil, err
	}
	if grant.Scope == access.ScopeSelf && (in.Username != nil || in.Role != nil || in.Department != nil) {
		return nil, domain.ErrForbidden
	}

	if in.Username != nil {
		*in.Username = strings.TrimSpace(*in.Username)
		if err := validateUsername(*in.Username); err != nil {
			return nil, err
		}
	}
	if in.Email != nil {
		*in.Email = strings.TrimSpace(*in.Email)
		if err := validateEmail(*in.Email); err != nil {
			return nil, err
		}
	}
	if in.Role != nil && !entity.IsValidRole(*in.Role) {
		return nil, domain.NewValidationError("role", "admin または user を指定してください")
	}
	var department string
	if in.Department != nil {
		department = entity.NormalizeDepartment(*in.Department)
		if err := RequireText("department", department, 100); err != nil {
			return nil, err
		}
	}
	var hash string
	if in.Password != nil {
		if err := validatePassword(*in.Password); err != nil {
			return nil, err
		}
		if hash, err = uc.hasher.Hash(*in.Password); err != nil {
			return nil, err
		}
	}

	var user *entity.User
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		user, err = r.Users.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrNotFound
		}
		if in.Username != nil && *in.Username != user.Username {
			existing, err := r.Users.GetByUsername(ctx, *in.Username)
			if err != nil {
				return err
			}
			if existing != nil {
				return domain.NewConflictError("ユーザー名は既に登録されています")
			}
			user.Username = *in.Username
		}
		if in.Email != nil {
			user.Email = *in.Email
		}
		if in.Role != nil {
			user.Role = *in.Role
		}
		if in.Department != nil {
			user.Department = department
		}
		if hash != "" {
			user.PasswordHash = hash
		}
		user.UpdatedAt = uc.now().UTC()
		return r.Users.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// Delete elimina un usuario y sus sesiones. Falla con Conflict si tiene ventas o
// registros de rendimiento asociados.
func (uc *UserUseCase) Delete(ctx context.Context, id entity.Identity, userID string) error {
	if _, err := uc.gate.Check(id, access.ResourceUser, access.ActionDelete); err != nil {
		return err
	}
	if userID == id.UserID {
		return domain.NewConflictError("ログイン中のユーザーは削除できません")
	}
	return uc.tx.Run(ctx, func(r repository.Repos) error {
		user, err := r.Users.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrNotFound
		}
		sales, err := r.Sales.CountByOwner(ctx, userID)
		if err != nil {
			return err
		}
		if sales > 0 {
			return domain.NewConflictError("売上が登録されているユーザーは削除できません")
		}
		perf, err := r.Performance.CountByUser(ctx, userID)
		if err != nil {
			return err
		}
		if perf > 0 {
			return domain.NewConflictError("実績が登録されているユーザーは削除できません")
		}
		if err := r.Sessions.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		return r.Users.Delete(ctx, userID)
	})
}

func validateUsername(s string) error {
	if !usernamePattern.MatchString(s) {
		return domain.NewValidationError("username", "3 a 50 caracteres: letras, dígitos, punto, guion o guion bajo")
	}
	return nil
}

func validateEmail(s string) error {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return domain.NewValidationError("email", "メールアドレスの形式が不正です")
	}
	return nil
}

func validatePassword(s string) error {
	if len(s) < minPasswordLength {
		return domain.NewValidationError("password", "8文字以上で入力してください")
	}
	return nil
}

// ToUserResponse nunca incluye el hash de la contraseña.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
