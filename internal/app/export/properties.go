package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jomei/notionapi"
)

func renderProperty(prop notionapi.Property) string {
	switch p := prop.(type) {
	case *notionapi.TitleProperty:
		return renderRichText(p.Title)
	case *notionapi.RichTextProperty:
		return renderRichText(p.RichText)
	case *notionapi.NumberProperty:
		return strconv.FormatFloat(p.Number, 'f', -1, 64)
	case *notionapi.SelectProperty:
		return p.Select.Name
	case *notionapi.StatusProperty:
		return p.Status.Name
	case *notionapi.MultiSelectProperty:
		names := make([]string, 0, len(p.MultiSelect))
		for _, option := range p.MultiSelect {
			names = append(names, option.Name)
		}
		return strings.Join(names, ", ")
	case *notionapi.DateProperty:
		return renderDateRange(p.Date)
	case *notionapi.CheckboxProperty:
		if p.Checkbox {
			return "Yes"
		}
		return "No"
	case *notionapi.URLProperty:
		return p.URL
	case *notionapi.EmailProperty:
		return p.Email
	case *notionapi.PhoneNumberProperty:
		return p.PhoneNumber
	case *notionapi.CreatedTimeProperty:
		return p.CreatedTime.Format(time.RFC3339)
	case *notionapi.LastEditedTimeProperty:
		return p.LastEditedTime.Format(time.RFC3339)
	default:
		return fmt.Sprintf("[%s property]", prop.GetType())
	}
}

func renderDateRange(d *notionapi.DateObject) string {
	if d == nil || d.Start == nil {
		return ""
	}
	out := formatDate(*d.Start)
	if d.End != nil {
		out += " to " + formatDate(*d.End)
	}
	return out
}

// formatDate prints date-only values without the midnight timestamp the
// client parses them into.
func formatDate(d notionapi.Date) string {
	t := time.Time(d)
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}
