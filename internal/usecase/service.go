package usecase

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"avatarShop/internal/domain"
)

type Repository interface {
	CreateUser(ctx context.Context, name, passwordHash string) (int, error)
	GetUserByName(ctx context.Context, name string) (*domain.User, error)
	GetUserByID(ctx context.Context, id int) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.UserSummary, error)

	ListItems(ctx context.Context) ([]domain.Item, error)
	GetItem(ctx context.Context, id int) (*domain.Item, error)

	ListOwnedItemIDs(ctx context.Context, userID int) ([]int, error)
	OwnsItem(ctx context.Context, userID, itemID int) (bool, error)

	AddGold(ctx context.Context, userID, amount int) error
	SetSlot(ctx context.Context, userID int, category string, itemID int) error
	PurchaseItem(ctx context.Context, userID, itemID, price int) error
}

type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// Register creates a new user with no gold and the default cosmetics.
func (s *Service) Register(ctx context.Context, name, password string) (int, error) {
	if name == "" || password == "" {
		return 0, domain.ErrMissingCredentials
	}
	existing, err := s.repo.GetUserByName(ctx, name)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, domain.ErrUserExists
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	return s.repo.CreateUser(ctx, name, string(hashed))
}

func (s *Service) Login(ctx context.Context, name, password string) (int, error) {
	if name == "" || password == "" {
		return 0, domain.ErrMissingCredentials
	}
	user, err := s.repo.GetUserByName(ctx, name)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return 0, domain.ErrWrongPassword
	}
	return user.ID, nil
}

type ProfileResponse struct {
	Name  string `json:"name"`
	Gold  int    `json:"gold"`
	Hat   int    `json:"hat"`
	Shirt int    `json:"shirt"`
	Pants int    `json:"pants"`
	Items []int  `json:"items"`
}

func (s *Service) Profile(ctx context.Context, userID int) (*ProfileResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	owned, err := s.repo.ListOwnedItemIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if owned == nil {
		owned = []int{}
	}
	return &ProfileResponse{
		Name:  user.Name,
		Gold:  user.Gold,
		Hat:   user.Hat,
		Shirt: user.Shirt,
		Pants: user.Pants,
		Items: owned,
	}, nil
}

type ItemResponse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    int    `json:"price"`
}

func (s *Service) Catalog(ctx context.Context) ([]ItemResponse, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		res = append(res, ItemResponse{ID: it.ID, Name: it.Name, Category: it.Category, Price: it.Price})
	}
	return res, nil
}

type UserResponse struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Gold  int    `json:"gold"`
	Hat   int    `json:"hat"`
	Shirt int    `json:"shirt"`
	Pants int    `json:"pants"`
	Items int    `json:"items"`
}

func (s *Service) Users(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]UserResponse, 0, len(users))
	for _, u := range users {
		res = append(res, UserResponse{
			ID:    u.ID,
			Name:  u.Name,
			Gold:  u.Gold,
			Hat:   u.Hat,
			Shirt: u.Shirt,
			Pants: u.Pants,
			Items: u.ItemCount,
		})
	}
	return res, nil
}

// Purchase debits the item price and records ownership atomically. The
// gold pre-check here gives a friendly error; the repository transaction
// is what actually guarantees the balance never goes negative under
// concurrent purchases.
func (s *Service) Purchase(ctx context.Context, userID, itemID int) error {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrItemNotFound
	}
	owns, err := s.repo.OwnsItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if owns {
		return domain.ErrItemAlreadyOwned
	}
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if user.Gold < item.Price {
		return domain.ErrInsufficientGold
	}
	return s.repo.PurchaseItem(ctx, userID, itemID, item.Price)
}

// Equip sets the slot matching the item's catalog category. Slot
// sentinels are always equippable; catalog items must be owned.
func (s *Service) Equip(ctx context.Context, userID, itemID int) error {
	if category, ok := domain.DefaultSlotCategory(itemID); ok {
		return s.repo.SetSlot(ctx, userID, category, itemID)
	}
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrItemNotFound
	}
	owns, err := s.repo.OwnsItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if !owns {
		return domain.ErrItemNotOwned
	}
	return s.repo.SetSlot(ctx, userID, item.Category, itemID)
}
