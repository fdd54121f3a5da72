package memory

import (
	"context"
	"sort"
	"time"

	"github.com/festal/festal-backend/internal/domain"
	"github.com/festal/festal-backend/internal/domain/entity"
	"github.com/festal/festal-backend/internal/domain/repository"
)

var (
	_ repository.UserRepository    = (*userRepo)(nil)
	_ repository.SessionRepository = (*sessionRepo)(nil)
)

type userRepo struct {
	st *state
	ro bool
}

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	if r.ro {
		return ErrReadOnly
	}
	if _, ok := r.st.users[u.ID]; ok {
		return domain.NewConflictError("ユーザーは既に存在します")
	}
	for _, other := range r.st.users {
		if other.Username == u.Username {
			return domain.NewConflictError("ユーザー名は既に登録されています")
		}
	}
	r.st.users[u.ID] = *u
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.st.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepo) GetForUpdate(ctx context.Context, id string) (*entity.User, error) {
	return r.GetByID(ctx, id)
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.st.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) Update(_ context.Context, u *entity.User) error {
	if r.ro {
		return ErrReadOnly
	}
	if _, ok := r.st.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, other := range r.st.users {
		if id != u.ID && other.Username == u.Username {
			return domain.NewConflictError("ユーザー名は既に登録されています")
		}
	}
	r.st.users[u.ID] = *u
	return nil
}

func (r *userRepo) List(_ context.Context, f repository.UserFilter) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.st.users {
		if f.Department != "" && u.Department != f.Department {
			continue
		}
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, f.Page), nil
}

// Delete emula ON DELETE RESTRICT de ventas/rendimiento y CASCADE de sesiones.
func (r *userRepo) Delete(_ context.Context, id string) error {
	if r.ro {
		return ErrReadOnly
	}
	if _, ok := r.st.users[id]; !ok {
		return domain.ErrNotFound
	}
	for _, s := range r.st.sales {
		if s.OwnerID == id {
			return domain.NewConflictError("売上が登録されているユーザーは削除できません")
		}
	}
	for _, p := range r.st.perf {
		if p.UserID == id {
			return domain.NewConflictError("実績が登録されているユーザーは削除できません")
		}
	}
	for sid, s := range r.st.sessions {
		if s.UserID == id {
			delete(r.st.sessions, sid)
		}
	}
	delete(r.st.users, id)
	return nil
}

type sessionRepo struct {
	st *state
	ro bool
}

func (r *sessionRepo) Create(_ context.Context, s *entity.Session) error {
	if r.ro {
		return ErrReadOnly
	}
	if _, ok := r.st.users[s.UserID]; !ok {
		return domain.NewConflictError("セッションのユーザーが存在しません")
	}
	if _, ok := r.st.sessions[s.ID]; ok {
		return domain.NewConflictError("セッションが重複しています")
	}
	r.st.sessions[s.ID] = *s
	return nil
}

func (r *sessionRepo) GetByID(_ context.Context, id string) (*entity.Session, error) {
	s, ok := r.st.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *sessionRepo) Delete(_ context.Context, id string) error {
	if r.ro {
		return ErrReadOnly
	}
	if _, ok := r.st.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.st.sessions, id)
	return nil
}

func (r *sessionRepo) DeleteByUser(_ context.Context, userID string) error {
	if r.ro {
		return ErrReadOnly
	}
	for id, s := range r.st.sessions {
		if s.UserID == userID {
			delete(r.st.sessions, id)
		}
	}
	return nil
}

func (r *sessionRepo) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	if r.ro {
		return 0, ErrReadOnly
	}
	n := 0
	for id, s := range r.st.sessions {
		if s.Expired(now) {
			delete(r.st.sessions, id)
			n++
		}
	}
	return n, nil
}
