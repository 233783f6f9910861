package alias

import (
	"context"
	"strings"

	"github.com/huangsam/coredev/internal/contract"
	"github.com/huangsam/coredev/schema"
	"github.com/sirupsen/logrus"
)

// ResolveLogins asks resolver for the login behind the first commit of each
// distinct author. Failed lookups leave the author login-less; only context
// cancellation is returned as an error.
func ResolveLogins(ctx context.Context, commits []schema.CommitRecord, resolver contract.LoginResolver) (map[string]string, error) {
	logins := map[string]string{}
	if resolver == nil {
		return logins, nil
	}

	firstCommit := map[string]string{}
	for _, c := range commits {
		if _, ok := firstCommit[c.Author]; !ok {
			firstCommit[c.Author] = c.Hash
		}
	}

	log := contract.Logger()
	for _, id := range DistinctAuthors(commits) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		login, err := resolver.ResolveLogin(ctx, firstCommit[id])
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			log.WithFields(logrus.Fields{"author": id, "sha": firstCommit[id]}).WithError(err).Debug("Login lookup failed")
			continue
		}
		if login = strings.ToLower(strings.TrimSpace(login)); login != "" {
			logins[id] = login
		}
	}
	log.WithField("resolved", len(logins)).Debug("Resolved commit logins")
	return logins, nil
}
