// Package policy decides which principal may read or write which resource.
//
// Access is an explicit table keyed by resource kind and operation. Milestones
// are a private journal: only their owner may read or change them. Tips are
// broadcast advice: anyone may read them and any authenticated principal may
// add one, whoever owns the milestone.
package policy

import "github.com/msomdec/bump-journal/internal/domain"

// Kind identifies a resource type.
type Kind string

const (
	KindMilestone Kind = "milestone"
	KindTip       Kind = "tip"
)

// Op identifies the kind of access requested.
type Op string

const (
	OpRead  Op = "read"
	OpWrite Op = "write"
)

// Resource is the subject of an access check. OwnerID is the owning user for
// owner-scoped kinds and is ignored otherwise.
type Resource struct {
	Kind    Kind
	OwnerID int64
}

// Milestone describes m as a policy resource.
func Milestone(m *domain.Milestone) Resource {
	return Resource{Kind: KindMilestone, OwnerID: m.OwnerID}
}

// Tip describes a tip resource. Tips are not owner-scoped.
func Tip() Resource {
	return Resource{Kind: KindTip}
}

// Rule is a pure predicate over the caller and the resource.
type Rule struct {
	Name string
	// NeedsPrincipal reports that anonymous callers are always refused.
	NeedsPrincipal bool
	Allow          func(p *domain.Principal, r Resource) bool
}

type key struct {
	kind Kind
	op   Op
}

var (
	// Public allows every caller, including anonymous ones.
	Public = Rule{
		Name:  "public",
		Allow: func(*domain.Principal, Resource) bool { return true },
	}

	// Authenticated allows any principal.
	Authenticated = Rule{
		Name:           "authenticated",
		NeedsPrincipal: true,
		Allow:          func(p *domain.Principal, _ Resource) bool { return p != nil },
	}

	// Owner allows only the principal that owns the resource.
	Owner = Rule{
		Name:           "owner",
		NeedsPrincipal: true,
		Allow:          IsOwner,
	}
)

// IsOwner reports whether p owns r.
func IsOwner(p *domain.Principal, r Resource) bool {
	return p != nil && p.ID == r.OwnerID
}

var table = map[key]Rule{
	{KindMilestone, OpRead}:  Owner,
	{KindMilestone, OpWrite}: Owner,
	{KindTip, OpRead}:        Public,
	{KindTip, OpWrite}:       Authenticated,
}

// Entry is one row of the policy table.
type Entry struct {
	Kind Kind
	Op   Op
	Rule Rule
}

// Rules lists the policy table.
func Rules() []Entry {
	entries := make([]Entry, 0, len(table))
	for _, kind := range []Kind{KindMilestone, KindTip} {
		for _, op := range []Op{OpRead, OpWrite} {
			if rule, ok := table[key{kind, op}]; ok {
				entries = append(entries, Entry{Kind: kind, Op: op, Rule: rule})
			}
		}
	}
	return entries
}

// Guard evaluates the policy table. The zero value is ready to use.
type Guard struct{}

// CanRead reports whether p may read r. p may be nil.
func (Guard) CanRead(p *domain.Principal, r Resource) bool {
	return allowed(p, r, OpRead)
}

// CanWrite reports whether p may create, change or delete r.
func (Guard) CanWrite(p *domain.Principal, r Resource) bool {
	return allowed(p, r, OpWrite)
}

// Authorize returns nil when p may perform op on r, ErrUnauthorized when the
// rule needs a principal and p is nil, and ErrForbidden otherwise.
func (Guard) Authorize(p *domain.Principal, r Resource, op Op) error {
	rule, ok := table[key{r.Kind, op}]
	if !ok {
		return domain.ErrForbidden
	}
	if p == nil && rule.NeedsPrincipal {
		return domain.ErrUnauthorized
	}
	if !rule.Allow(p, r) {
		return domain.ErrForbidden
	}
	return nil
}

func allowed(p *domain.Principal, r Resource, op Op) bool {
	rule, ok := table[key{r.Kind, op}]
	if !ok {
		return false
	}
	return rule.Allow(p, r)
}
