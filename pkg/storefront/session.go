package storefront

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleFarmer   Role = "farmer"
)

// Profile is whoever is signed in. FarmerID is set for farmers only.
type Profile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Picture  string `json:"picture,omitempty"`
	FarmerID string `json:"farmerId,omitempty"`
}

// Session is the signed-in user, their token and their cart.
type Session struct {
	Role     Role    `json:"role"`
	User     Profile `json:"user"`
	Token    string  `json:"token"`
	Language string  `json:"language,omitempty"`
	Cart     Cart    `json:"cart"`
}

func NewCustomerSession(cs *CustomerSession) *Session {
	return &Session{
		Role:  RoleCustomer,
		Token: cs.Token,
		User: Profile{
			ID:      cs.User.ID,
			Name:    cs.User.Name,
			Email:   cs.User.Email,
			Picture: cs.User.Picture,
		},
	}
}

func NewFarmerSession(login *FarmerLogin) *Session {
	return &Session{
		Role:  RoleFarmer,
		Token: login.Token,
		User: Profile{
			ID:       login.ID,
			Name:     login.Name,
			Email:    login.Email,
			Picture:  login.Image,
			FarmerID: login.ID,
		},
	}
}

func (s *Session) LoggedIn() bool {
	return s != nil && s.Token != ""
}

// Logout drops the identity and the cart but keeps the language choice.
func (s *Session) Logout() {
	lang := s.Language
	*s = Session{Language: lang}
}

func (s *Session) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

func LoadSession(r io.Reader) (*Session, error) {
	var s Session
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	switch s.Role {
	case "", RoleCustomer, RoleFarmer:
	default:
		return nil, fmt.Errorf("decode session: unknown role %q", s.Role)
	}
	return &s, nil
}

// FileStore keeps one session on disk across restarts.
type FileStore struct {
	Path string
}

// Load returns an empty session when nothing has been saved yet.
func (fs FileStore) Load() (*Session, error) {
	f, err := os.Open(fs.Path)
	if errors.Is(err, os.ErrNotExist) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadSession(f)
}

// Save replaces the file atomically.
func (fs FileStore) Save(s *Session) error {
	dir := filepath.Dir(fs.Path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := s.Save(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), fs.Path)
}

func (fs FileStore) Clear() error {
	err := os.Remove(fs.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
