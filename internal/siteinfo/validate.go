package siteinfo

import (
	"github.com/igxactly-forks/lightning/internal/document"
	"github.com/igxactly-forks/lightning/internal/timezone"
	"github.com/igxactly-forks/lightning/internal/validated"
)

// Field names of the site_info section.
const (
	Section            = "site_info"
	KeyTitle           = "title"
	KeyURL             = "url"
	KeyDescription     = "description"
	KeyMetadata        = "metadata"
	KeyDefaultTimezone = "default_timezone"
)

// URLFunc validates a raw URL string.
type URLFunc func(raw string) (validated.URL, error)

// Validator turns a site_info mapping into a SiteInfo.  It holds no
// mutable state and is safe for concurrent use.
type Validator struct {
	validateURL URLFunc
	zones       timezone.Registry
}

// NewValidator wires the two delegated checks.  A nil argument selects
// validated.NewURL or timezone.Default respectively.
func NewValidator(urls URLFunc, zones timezone.Registry) *Validator {
	if urls == nil {
		urls = validated.NewURL
	}
	if zones == nil {
		zones = timezone.Default()
	}
	return &Validator{validateURL: urls, zones: zones}
}

// FromMapping validates m with the default URL check and timezone
// registry.
func FromMapping(m document.Value) (SiteInfo, error) {
	return NewValidator(nil, nil).Validate(m)
}

// Validate checks fields in a fixed order (title, url, description,
// metadata, default_timezone) and returns the first failure.  No partial
// record is ever returned.
func (v *Validator) Validate(m document.Value) (SiteInfo, error) {
	title, err := requiredString(m, KeyTitle)
	if err != nil {
		return SiteInfo{}, err
	}

	rawURL, err := requiredString(m, KeyURL)
	if err != nil {
		return SiteInfo{}, err
	}
	url, err := v.validateURL(rawURL)
	if err != nil {
		return SiteInfo{}, err
	}

	description, err := optionalString(m, KeyDescription)
	if err != nil {
		return SiteInfo{}, err
	}

	metadata, err := collectMetadata(m, KeyMetadata)
	if err != nil {
		return SiteInfo{}, err
	}

	zoneName, err := requiredString(m, KeyDefaultTimezone)
	if err != nil {
		return SiteInfo{}, err
	}
	zone, err := v.zones.Resolve(zoneName)
	if err != nil {
		return SiteInfo{}, err
	}

	return SiteInfo{
		Title:           title,
		URL:             url,
		DefaultTimezone: zone,
		Description:     description,
		Metadata:        metadata,
	}, nil
}

// FromSection validates the mapping stored under section in doc, e.g.
// the `site_info` block of a project file.
func (v *Validator) FromSection(doc document.Value, section string) (SiteInfo, error) {
	m, ok := lookup(doc, section)
	if !ok {
		return SiteInfo{}, missingField(section, doc)
	}
	if m.Kind() != document.Mapping {
		return SiteInfo{}, wrongType(section, true, doc, "mapping")
	}
	return v.Validate(m)
}
