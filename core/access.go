package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/octocred/octocred/internal/contract"
)

// writePermissions are the collaborator permission levels that imply push access.
var writePermissions = map[string]struct{}{
	"admin":    {},
	"maintain": {},
	"write":    {},
}

// ResolveWriteAccess determines whether the applicant can push to the
// repository. It tries an ordered chain of probes, from the most direct
// signal to the weakest. Probe failures are logged and swallowed so that a
// restricted token never aborts the analysis; if every probe fails or
// errors, the applicant is treated as having no access.
func ResolveWriteAccess(ctx context.Context, client contract.RepoClient, owner, name, username string, since time.Time) bool {
	probes := []struct {
		name string
		fn   func() (bool, error)
	}{
		{"collaborator permission", func() (bool, error) {
			perm, err := client.GetCollaboratorPermission(ctx, owner, name, username)
			if err != nil {
				return false, err
			}
			_, ok := writePermissions[strings.ToLower(perm)]
			return ok, nil
		}},
		{"collaborator list", func() (bool, error) {
			logins, err := client.ListCollaborators(ctx, owner, name)
			if err != nil {
				return false, err
			}
			for _, login := range logins {
				if strings.EqualFold(login, username) {
					return true, nil
				}
			}
			return false, nil
		}},
		{"merge evidence", func() (bool, error) {
			prs, err := client.ListClosedPullRequests(ctx, owner, name, 1, prPageSize)
			if err != nil {
				return false, err
			}
			for _, pr := range prs {
				if pr.MergedAt != nil && strings.EqualFold(pr.MergedBy, username) {
					return true, nil
				}
			}
			return false, nil
		}},
		{"authored commits", func() (bool, error) {
			count, err := client.CountCommitsByAuthor(ctx, owner, name, username, since)
			if err != nil {
				return false, err
			}
			return count > 0, nil
		}},
	}

	for _, probe := range probes {
		ok, err := probe.fn()
		if err != nil {
			contract.LogWarn(fmt.Sprintf("Access probe %q failed for %s/%s", probe.name, owner, name), err)
			continue
		}
		if ok {
			return true
		}
	}
	return false
}
