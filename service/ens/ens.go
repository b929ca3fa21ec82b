package ens

import (
	"github.com/domaindao/goapi/base/ctx"
	"github.com/domaindao/goapi/domain"
)

type ENS interface {
	Resolve(ctx ctx.Ctx, name string) (domain.Address, error)
	ReverseResolve(ctx ctx.Ctx, address domain.Address) (string, error)
	// TokenId derives the registry token id from a domain name
	TokenId(name string) (domain.TokenId, error)
}
