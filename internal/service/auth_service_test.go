package service

import (
	"context"
	"testing"

	"github.com/farosystems/camara-comercio-haedo-sub000/internal/config"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/dto"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/model"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newFakeUsuarioRepo() *fakeUsuarioRepo {
	return &fakeUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *fakeUsuarioRepo) add(username, password, rol string, activo bool) uuid.UUID {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	id := uuid.New()
	r.usuarios[id] = &model.Usuario{
		ID: id, Username: username, Nombre: username,
		PasswordHash: string(hash), Rol: rol, Activo: activo,
	}
	return id
}

func (r *fakeUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *fakeUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username && u.Activo {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if u.Activo {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUsuarioRepo) ListAll(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

func (r *fakeUsuarioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	u, ok := r.usuarios[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Activo = false
	return nil
}

func (r *fakeUsuarioRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	u, ok := r.usuarios[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Activo = true
	return nil
}

var _ repository.UsuarioRepository = (*fakeUsuarioRepo)(nil)

func authTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "secreto-de-prueba",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
}

func TestLogin(t *testing.T) {
	repo := newFakeUsuarioRepo()
	repo.add("tesorero@camara", "clave1234", "tesorero", true)
	svc := NewAuthService(repo, authTestConfig())

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "tesorero@camara",
		Password: "clave1234",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "tesorero", resp.User.Rol)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
}

func TestLoginPasswordIncorrecta(t *testing.T) {
	repo := newFakeUsuarioRepo()
	repo.add("operador@camara", "clave1234", "operador", true)
	svc := NewAuthService(repo, authTestConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "operador@camara",
		Password: "otra-clave",
	})
	assert.ErrorContains(t, err, "credenciales invalidas")
}

func TestLoginUsuarioInactivo(t *testing.T) {
	repo := newFakeUsuarioRepo()
	repo.add("baja@camara", "clave1234", "operador", false)
	svc := NewAuthService(repo, authTestConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "baja@camara",
		Password: "clave1234",
	})
	assert.ErrorContains(t, err, "credenciales invalidas")
}

func TestRefresh(t *testing.T) {
	repo := newFakeUsuarioRepo()
	repo.add("admin@camara", "clave1234", "administrador", true)
	svc := NewAuthService(repo, authTestConfig())

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "admin@camara",
		Password: "clave1234",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, login.User.ID, refreshed.User.ID)
}

func TestRefreshTokenInvalido(t *testing.T) {
	svc := NewAuthService(newFakeUsuarioRepo(), authTestConfig())

	_, err := svc.Refresh(context.Background(), "no-es-un-jwt")
	assert.ErrorContains(t, err, "invalido")
}

func TestDesactivarYReactivarUsuario(t *testing.T) {
	repo := newFakeUsuarioRepo()
	id := repo.add("operador@camara", "clave1234", "operador", true)
	svc := NewAuthService(repo, authTestConfig())

	require.NoError(t, svc.DesactivarUsuario(context.Background(), id))
	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "operador@camara",
		Password: "clave1234",
	})
	assert.Error(t, err)

	require.NoError(t, svc.ReactivarUsuario(context.Background(), id))
	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Username: "operador@camara",
		Password: "clave1234",
	})
	assert.NoError(t, err)
}
