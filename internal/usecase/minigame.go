package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"

	"avatarShop/internal/domain"
)

// RewardGold is granted per correctly answered question.
const RewardGold = 10

// Challenge is one arithmetic question. The answer stays server-side,
// parked in the caller's session until WinGold checks it.
type Challenge struct {
	Question string
	Answer   int
}

// NewChallenge generates a question over operands 1..10 with one of
// + - *, matching what the minigame page used to roll client-side.
func NewChallenge() Challenge {
	a := rand.IntN(10) + 1
	b := rand.IntN(10) + 1
	switch rand.IntN(3) {
	case 0:
		return Challenge{Question: fmt.Sprintf("%d + %d", a, b), Answer: a + b}
	case 1:
		return Challenge{Question: fmt.Sprintf("%d - %d", a, b), Answer: a - b}
	default:
		return Challenge{Question: fmt.Sprintf("%d * %d", a, b), Answer: a * b}
	}
}

// WinGold grants the fixed reward and returns the new balance. Answer
// verification happens at the HTTP layer against the session; by the
// time this runs the round has been won.
func (s *Service) WinGold(ctx context.Context, userID int) (int, error) {
	if err := s.repo.AddGold(ctx, userID, RewardGold); err != nil {
		return 0, err
	}
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, domain.ErrUserNotFound
	}
	return user.Gold, nil
}
