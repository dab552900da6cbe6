package config

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/ThrownLemon/claude-code-plugins/color"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

type knownWidgetsKey struct{}

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("color_name", func(fl validator.FieldLevel) bool {
			return color.IsKnown(fl.Field().String())
		})

		_ = v.RegisterValidationCtx("widget_name", func(ctx context.Context, fl validator.FieldLevel) bool {
			known, ok := ctx.Value(knownWidgetsKey{}).(map[string]bool)
			if !ok {
				return true
			}
			return known[fl.Field().String()]
		})

		validateInst = v
	})

	return validateInst
}

// Issue is one problem found by Validate. Rendering tolerates every issue;
// they exist to explain why output differs from what the user configured.
type Issue struct {
	Path    string
	Message string
}

func (i Issue) String() string {
	return i.Path + ": " + i.Message
}

// widgetOptions lists the numeric and enumerated options with bounded ranges.
type widgetOptions struct {
	Enabled     *bool    `json:"enabled"`
	MaxLength   *int     `json:"max_length" validate:"omitempty,gte=1,lte=200"`
	Decimals    *int     `json:"decimals" validate:"omitempty,gte=0,lte=10"`
	BarLength   *int     `json:"bar_length" validate:"omitempty,gte=0,lte=100"`
	MaxSegments *int     `json:"max_segments" validate:"omitempty,gte=1,lte=32"`
	Threshold   *float64 `json:"threshold" validate:"omitempty,gte=0"`
	WindowHours *float64 `json:"window_hours" validate:"omitempty,gt=0,lte=168"`
	Low         *float64 `json:"low" validate:"omitempty,gte=0,lte=100"`
	Mid         *float64 `json:"mid" validate:"omitempty,gte=0,lte=100"`
	High        *float64 `json:"high" validate:"omitempty,gte=0,lte=100"`
	Style       *string  `json:"style" validate:"omitempty,oneof=basename full fish short long"`
	Format      *string  `json:"format" validate:"omitempty,oneof=short long"`
	Unit        *string  `json:"unit" validate:"omitempty,oneof=ms s"`
}

// ValidDecimals reports whether n is an acceptable decimals option.
func ValidDecimals(n int) bool {
	return validatorInstance().Var(n, "gte=0,lte=10") == nil
}

// Validate checks the merged document against the known widget names. The
// result is sorted by path.
func (s *Store) Validate(known []string) []Issue {
	v := validatorInstance()
	knownSet := make(map[string]bool, len(known))
	for _, name := range known {
		knownSet[name] = true
	}
	ctx := context.WithValue(context.Background(), knownWidgetsKey{}, knownSet)

	var issues []Issue
	add := func(path, format string, args ...any) {
		issues = append(issues, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if raw, ok := s.raw["layout"]; ok {
		rows, ok := parseLayout(raw)
		if !ok {
			add("layout", "malformed; falling back to [[model_name]]")
		}
		for i, row := range rows {
			for j, name := range row {
				if err := v.VarCtx(ctx, name, "widget_name"); err != nil {
					add(fmt.Sprintf("layout[%d][%d]", i, j), "unknown widget %q", name)
				}
			}
		}
	} else {
		add("layout", "missing; falling back to [[model_name]]")
	}

	if widgets, ok := asMap(s.raw["widgets"]); ok {
		for name, opts := range widgets {
			path := "widgets." + name
			if err := v.VarCtx(ctx, name, "widget_name"); err != nil {
				add(path, "unknown widget")
			}
			m, ok := asMap(opts)
			if !ok {
				add(path, "options must be an object")
				continue
			}
			issues = append(issues, validateWidget(v, path, m)...)
		}
	} else if _, present := s.raw["widgets"]; present {
		add("widgets", "must be an object")
	}

	switch t := s.raw["theme"].(type) {
	case nil:
	case string:
		if _, err := BuiltinTheme(t); err != nil && t != "" {
			add("theme", "no built-in theme %q; the user theme file or default applies", t)
		}
	default:
		m, ok := asMap(t)
		if !ok {
			add("theme", "must be a name or an object")
			break
		}
		th, err := themeFromMap(m)
		if err != nil {
			add("theme", "%v", err)
			break
		}
		issues = append(issues, validatePalette(v, "theme.colors", th.Colors)...)
	}

	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Path < issues[j].Path })
	return issues
}

func validateWidget(v *validator.Validate, path string, m map[string]any) []Issue {
	data, err := json.Marshal(m)
	if err != nil {
		return []Issue{{Path: path, Message: err.Error()}}
	}
	var opts widgetOptions
	if err := json.Unmarshal(data, &opts); err != nil {
		return []Issue{{Path: path, Message: "invalid option type: " + trimJSONError(err)}}
	}

	var issues []Issue
	if err := v.Struct(opts); err != nil {
		if ves, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range ves {
				issues = append(issues, Issue{
					Path:    path + "." + optionName(fe),
					Message: fmt.Sprintf("failed validation for tag '%s'", fe.Tag()),
				})
			}
		}
	}
	if opts.Mid != nil && opts.High != nil && *opts.Mid > *opts.High {
		issues = append(issues, Issue{Path: path + ".mid", Message: "must not exceed high"})
	}
	return issues
}

func validatePalette(v *validator.Validate, path string, p color.Palette) []Issue {
	var issues []Issue
	for category, st := range p {
		if err := v.Var(st.FG, "omitempty,color_name"); err != nil {
			issues = append(issues, Issue{Path: path + "." + category + ".fg", Message: fmt.Sprintf("unknown color %q", st.FG)})
		}
		if st.BG != "" && color.BG(st.BG) == "" {
			issues = append(issues, Issue{Path: path + "." + category + ".bg", Message: fmt.Sprintf("unknown background %q", st.BG)})
		}
	}
	return issues
}

// ValidateTheme checks every color name in a theme.
func ValidateTheme(th *Theme) []Issue {
	if th == nil {
		return nil
	}
	issues := validatePalette(validatorInstance(), "colors", th.Colors)
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Path < issues[j].Path })
	return issues
}

// optionName maps a struct field error back to the JSON option key.
func optionName(fe validator.FieldError) string {
	var b strings.Builder
	for i, r := range fe.Field() {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

func trimJSONError(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, "Go struct field "); i >= 0 {
		msg = msg[i+len("Go struct field "):]
	}
	return msg
}
