package handlers

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"customderiv/internal/domain"
)

// paramError names the offending request parameter.
type paramError struct {
	name string
}

func (e *paramError) Error() string {
	return "Invalid parameter " + e.name
}

func (e *paramError) Unwrap() error {
	return domain.ErrInvalidParameter
}

// listParam collects name and name[] values; comma separated values are split.
func listParam(form url.Values, name string) []string {
	var out []string
	for _, key := range []string{name, name + "[]"} {
		for _, raw := range form[key] {
			for _, v := range strings.Split(raw, ",") {
				if v = strings.TrimSpace(v); v != "" {
					out = append(out, v)
				}
			}
		}
	}
	return out
}

func positiveInt(form url.Values, name string) (*int, error) {
	return intParam(form, name, 1)
}

// nonNegativeInt accepts 0, which range filters use as a real bound.
func nonNegativeInt(form url.Values, name string) (*int, error) {
	return intParam(form, name, 0)
}

func intParam(form url.Values, name string, minValue int) (*int, error) {
	raw := strings.TrimSpace(form.Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < minValue {
		return nil, &paramError{name: name}
	}
	return &v, nil
}

func floatParam(form url.Values, name string, nonNegative bool) (*float64, error) {
	raw := strings.TrimSpace(form.Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || (nonNegative && v < 0) {
		return nil, &paramError{name: name}
	}
	return &v, nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// dateParam parses a date bound. A day-only upper bound covers the whole day.
func dateParam(form url.Values, name string, upper bool) (*time.Time, error) {
	raw := strings.TrimSpace(form.Get(name))
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		if upper && layout == "2006-01-02" {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return &t, nil
	}
	return nil, &paramError{name: name}
}

// parseScanRequest reads the missing-derivatives parameters from a parsed form.
func parseScanRequest(form url.Values, defaultMax int) (domain.ScanRequest, error) {
	req := domain.ScanRequest{
		Types:      listParam(form, "types"),
		MaxResults: defaultMax,
	}

	for _, raw := range listParam(form, "ids") {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return domain.ScanRequest{}, &paramError{name: "ids"}
		}
		req.ImageIDs = append(req.ImageIDs, id)
	}

	maxURLs, err := positiveInt(form, "max_urls")
	if err != nil {
		return domain.ScanRequest{}, err
	}
	if maxURLs != nil {
		req.MaxResults = *maxURLs
	}

	prev, err := positiveInt(form, "prev_page")
	if err != nil {
		return domain.ScanRequest{}, err
	}
	if prev != nil {
		req.Cursor = int64(*prev)
	}

	f := &req.Filters
	steps := []func() error{
		func() (err error) { f.MinRating, err = floatParam(form, "f_min_rate", false); return },
		func() (err error) { f.MaxRating, err = floatParam(form, "f_max_rate", false); return },
		func() (err error) { f.MinHits, err = nonNegativeInt(form, "f_min_hit"); return },
		func() (err error) { f.MaxHits, err = nonNegativeInt(form, "f_max_hit"); return },
		func() (err error) { f.MinRatio, err = floatParam(form, "f_min_ratio", true); return },
		func() (err error) { f.MaxRatio, err = floatParam(form, "f_max_ratio", true); return },
		func() (err error) { f.MaxLevel, err = nonNegativeInt(form, "f_max_level"); return },
		func() (err error) { f.MinDateAvailable, err = dateParam(form, "f_min_date_available", false); return },
		func() (err error) { f.MaxDateAvailable, err = dateParam(form, "f_max_date_available", true); return },
		func() (err error) { f.MinDateCreated, err = dateParam(form, "f_min_date_created", false); return },
		func() (err error) { f.MaxDateCreated, err = dateParam(form, "f_max_date_created", true); return },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return domain.ScanRequest{}, err
		}
	}
	return req, nil
}
