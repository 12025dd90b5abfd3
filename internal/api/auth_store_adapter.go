package api

import "github.com/cispa-hq/cispa/internal/services"

type authStoreAdapter struct {
	store Store
}

func newAuthStoreAdapter(store Store) services.AuthStore {
	return &authStoreAdapter{store: store}
}

func (a *authStoreAdapter) FindUserByEmail(email string) (*services.User, error) {
	u, err := a.store.FindUserByEmail(email)
	if err != nil {
		return nil, err
	}
	return convertAPIUser(u), nil
}

func (a *authStoreAdapter) AddUser(u *services.User) error {
	return a.store.AddUser(convertServiceUser(u))
}

var _ services.AuthStore = (*authStoreAdapter)(nil)
