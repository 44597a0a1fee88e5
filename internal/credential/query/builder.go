// Package query builds selective-disclosure predicate queries over credential
// attributes. A query proves a fact about a credential ("registered more than
// 30 days ago") without revealing the underlying value; the issuer node and
// the holder's wallet do the cryptographic work, this package only shapes the
// predicates.
//
// Expressiveness boundary: predicates always combine conjunctively (logical
// AND). There is no disjunction support, and the combined builder silently
// ignores unknown condition keys.
package query

import (
	"strconv"
	"time"

	"github.com/0xronaldo/backend-zkp-lastproyect/internal/credential/models"
)

// Operator is a predicate comparator. The wire forms follow the iden3 query
// operator vocabulary.
type Operator string

const (
	OpEqual       Operator = "$eq"
	OpNotEqual    Operator = "$ne"
	OpLessThan    Operator = "$lt"
	OpGreaterThan Operator = "$gt"
	OpIn          Operator = "$in"
	OpNotIn       Operator = "$nin"
	OpExists      Operator = "$exists"
)

// Predicate maps operators to comparison values for a single attribute.
type Predicate map[Operator]any

// ProofQuery maps credential attribute names to predicates. All predicates
// must hold for the query to be satisfied.
type ProofQuery map[string]Predicate

// merge folds other into q attribute by attribute. Same-attribute predicates
// are combined, with other winning on operator collisions.
func (q ProofQuery) merge(other ProofQuery) ProofQuery {
	for attr, pred := range other {
		existing, ok := q[attr]
		if !ok {
			q[attr] = pred
			continue
		}
		for op, v := range pred {
			existing[op] = v
		}
	}
	return q
}

// birthDateInt renders a date in the iden3 YYYYMMDD integer convention.
func birthDateInt(t time.Time) int {
	v, _ := strconv.Atoi(t.Format("20060102"))
	return v
}

// AgeAtLeast proves the subject is at least minYears old: a birth date before
// the cutoff sorts lower in the YYYYMMDD encoding.
func AgeAtLeast(now time.Time, minYears int) ProofQuery {
	cutoff := now.AddDate(-minYears, 0, 0)
	return ProofQuery{
		models.AttrBirthDate: Predicate{OpLessThan: birthDateInt(cutoff)},
	}
}

// AccountStateEquals proves the account is in the given state.
func AccountStateEquals(state string) ProofQuery {
	return ProofQuery{
		models.AttrAccountState: Predicate{OpEqual: state},
	}
}

// IsVerified proves the verified flag has the given value.
func IsVerified(verified bool) ProofQuery {
	return ProofQuery{
		models.AttrVerified: Predicate{OpEqual: verified},
	}
}

// AuthMethodEquals proves the account authenticates with the given method.
func AuthMethodEquals(method string) ProofQuery {
	return ProofQuery{
		models.AttrAuthMethod: Predicate{OpEqual: method},
	}
}

// HasEmail proves an email attribute is present without revealing it.
func HasEmail() ProofQuery {
	return ProofQuery{
		models.AttrEmail: Predicate{OpExists: true},
	}
}

// HasWallet proves a wallet address attribute is present without revealing it.
func HasWallet() ProofQuery {
	return ProofQuery{
		models.AttrWalletAddress: Predicate{OpExists: true},
	}
}

// AccountAgeAtLeast proves the account was registered at least minDays ago.
// Registration dates are unix-second timestamps.
func AccountAgeAtLeast(now time.Time, minDays int) ProofQuery {
	cutoff := now.AddDate(0, 0, -minDays)
	return ProofQuery{
		models.AttrRegistrationDate: Predicate{OpLessThan: cutoff.Unix()},
	}
}

// RegistrationBetween proves the registration date falls inside the range.
// The range is passed through as authored: an end before the start produces a
// query no credential satisfies, and that is the caller's query to make.
func RegistrationBetween(from, to time.Time) ProofQuery {
	return ProofQuery{
		models.AttrRegistrationDate: Predicate{
			OpGreaterThan: from.Unix(),
			OpLessThan:    to.Unix(),
		},
	}
}

// Condition keys accepted by Combined. Anything else is ignored.
const (
	CondMinAge            = "minAge"
	CondAccountState      = "accountState"
	CondVerified          = "verified"
	CondAuthMethod        = "authMethod"
	CondHasEmail          = "hasEmail"
	CondHasWallet         = "hasWallet"
	CondMinAccountAgeDays = "minAccountAgeDays"
	CondRegisteredAfter   = "registeredAfter"
	CondRegisteredBefore  = "registeredBefore"
)

// Combined builds a single conjunctive query from named conditions. Values
// arrive as decoded JSON (numbers are float64, dates are RFC3339 strings).
// Unknown keys and values of the wrong shape are silently dropped.
func Combined(now time.Time, conditions map[string]any) ProofQuery {
	q := ProofQuery{}
	for key, raw := range conditions {
		switch key {
		case CondMinAge:
			if n, ok := asInt(raw); ok {
				q = q.merge(AgeAtLeast(now, n))
			}
		case CondAccountState:
			if s, ok := raw.(string); ok {
				q = q.merge(AccountStateEquals(s))
			}
		case CondVerified:
			if b, ok := raw.(bool); ok {
				q = q.merge(IsVerified(b))
			}
		case CondAuthMethod:
			if s, ok := raw.(string); ok {
				q = q.merge(AuthMethodEquals(s))
			}
		case CondHasEmail:
			if b, ok := raw.(bool); ok && b {
				q = q.merge(HasEmail())
			}
		case CondHasWallet:
			if b, ok := raw.(bool); ok && b {
				q = q.merge(HasWallet())
			}
		case CondMinAccountAgeDays:
			if n, ok := asInt(raw); ok {
				q = q.merge(AccountAgeAtLeast(now, n))
			}
		case CondRegisteredAfter:
			if t, ok := asTime(raw); ok {
				q = q.merge(ProofQuery{
					models.AttrRegistrationDate: Predicate{OpGreaterThan: t.Unix()},
				})
			}
		case CondRegisteredBefore:
			if t, ok := asTime(raw); ok {
				q = q.merge(ProofQuery{
					models.AttrRegistrationDate: Predicate{OpLessThan: t.Unix()},
				})
			}
		}
	}
	return q
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}
	return time.Time{}, false
}
