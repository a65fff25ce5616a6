package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"eac-registry/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const defaultFeeKey = "default"

// Policy holds council rules that change without a deploy
type Policy struct {
	Currency                 string
	IndividualFees           map[string]decimal.Decimal
	OrganizationFees         map[string]decimal.Decimal
	Uploads                  UploadPolicy
	DraftTTLDays             int
	MembershipValidityMonths int
}

// UploadPolicy bounds document uploads
type UploadPolicy struct {
	DefaultMaxBytes int64
	MaxBytes        map[string]int64
	HourlyQuota     int
	DuplicateScope  domain.DuplicateScope
}

// DefaultPolicy returns the built-in policy used when no file is present
func DefaultPolicy() *Policy {
	return &Policy{
		Currency: "USD",
		IndividualFees: map[string]decimal.Decimal{
			defaultFeeKey:                       decimal.NewFromInt(50),
			"principal_registered_estate_agent": decimal.NewFromInt(100),
			"student":                           decimal.Zero,
		},
		OrganizationFees: map[string]decimal.Decimal{
			defaultFeeKey: decimal.NewFromInt(250),
			"sole_trader": decimal.NewFromInt(150),
		},
		Uploads: UploadPolicy{
			DefaultMaxBytes: 5 << 20,
			MaxBytes:        map[string]int64{"passport_photo": 2 << 20},
			HourlyQuota:     30,
			DuplicateScope:  domain.DuplicateScopeGlobal,
		},
		DraftTTLDays:             90,
		MembershipValidityMonths: 12,
	}
}

// LoadPolicy reads policy.yaml (optional) with POLICY_* env overrides
func LoadPolicy(path string) (*Policy, error) {
	p := DefaultPolicy()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("POLICY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("currency", p.Currency)
	v.SetDefault("uploads.default_max_kb", p.Uploads.DefaultMaxBytes>>10)
	v.SetDefault("uploads.hourly_quota", p.Uploads.HourlyQuota)
	v.SetDefault("uploads.duplicate_scope", string(p.Uploads.DuplicateScope))
	v.SetDefault("drafts.ttl_days", p.DraftTTLDays)
	v.SetDefault("membership.validity_months", p.MembershipValidityMonths)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
				log.Printf("⚠️ Policy file %s not found, using defaults", path)
			} else {
				return nil, fmt.Errorf("failed to read policy file: %w", err)
			}
		} else {
			log.Printf("✅ Policy loaded from %s", v.ConfigFileUsed())
		}
	}

	p.Currency = strings.ToUpper(v.GetString("currency"))
	p.Uploads.DefaultMaxBytes = v.GetInt64("uploads.default_max_kb") << 10
	p.Uploads.HourlyQuota = v.GetInt("uploads.hourly_quota")
	p.DraftTTLDays = v.GetInt("drafts.ttl_days")
	p.MembershipValidityMonths = v.GetInt("membership.validity_months")

	switch scope := domain.DuplicateScope(strings.ToLower(v.GetString("uploads.duplicate_scope"))); scope {
	case domain.DuplicateScopeGlobal, domain.DuplicateScopeApplication:
		p.Uploads.DuplicateScope = scope
	default:
		return nil, fmt.Errorf("invalid uploads.duplicate_scope %q", scope)
	}

	for docType, kb := range v.GetStringMapString("uploads.max_kb") {
		n, err := strconv.ParseInt(kb, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid uploads.max_kb.%s: %q", docType, kb)
		}
		p.Uploads.MaxBytes[docType] = n << 10
	}

	if err := mergeFees(p.IndividualFees, v.GetStringMapString("fees.individual")); err != nil {
		return nil, err
	}
	if err := mergeFees(p.OrganizationFees, v.GetStringMapString("fees.organization")); err != nil {
		return nil, err
	}

	if p.MembershipValidityMonths <= 0 {
		return nil, fmt.Errorf("membership.validity_months must be positive")
	}

	return p, nil
}

func mergeFees(dst map[string]decimal.Decimal, src map[string]string) error {
	for category, raw := range src {
		amount, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid fee for %s: %w", category, err)
		}
		if amount.IsNegative() {
			return fmt.Errorf("fee for %s must not be negative", category)
		}
		dst[strings.ToLower(category)] = amount.Round(2)
	}
	return nil
}

// FeeFor returns the application fee for a member or business type
func (p *Policy) FeeFor(t domain.ApplicationType, category string) decimal.Decimal {
	fees := p.IndividualFees
	if t == domain.ApplicationOrganization {
		fees = p.OrganizationFees
	}
	if fee, ok := fees[strings.ToLower(category)]; ok {
		return fee
	}
	return fees[defaultFeeKey]
}

// LargestUpload is the biggest file any document type accepts
func (p *Policy) LargestUpload() int64 {
	largest := p.Uploads.DefaultMaxBytes
	for _, n := range p.Uploads.MaxBytes {
		if n > largest {
			largest = n
		}
	}
	return largest
}
