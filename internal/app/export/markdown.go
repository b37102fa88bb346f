package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/jomei/notionapi"
)

// renderChildren walks one level of the block tree: each direct child of
// containerID is rendered and indented for its depth, then its subtree is
// appended right after it. Fetch failures bubble up untouched, the caller
// decides what to do with them.
func (e Exporter) renderChildren(ctx context.Context, containerID string, depth int) (string, error) {
	children, err := e.Source.BlockChildren(ctx, containerID)
	if err != nil {
		return "", err
	}

	var lines []string
	for _, child := range children {
		if text := renderBlock(child); text != "" {
			if depth > 0 {
				text = strings.Repeat("  ", depth) + text
			}
			lines = append(lines, text)
		}
		if child.GetHasChildren() {
			nested, err := e.renderChildren(ctx, string(child.GetID()), depth+1)
			if err != nil {
				return "", err
			}
			if nested != "" {
				lines = append(lines, nested)
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}

func renderBlock(block notionapi.Block) string {
	switch b := block.(type) {
	case *notionapi.ParagraphBlock:
		return renderRichText(b.Paragraph.RichText)
	case *notionapi.Heading1Block:
		return "## " + renderRichText(b.Heading1.RichText)
	case *notionapi.Heading2Block:
		return "### " + renderRichText(b.Heading2.RichText)
	case *notionapi.Heading3Block:
		return "#### " + renderRichText(b.Heading3.RichText)
	case *notionapi.BulletedListItemBlock:
		return "- " + renderRichText(b.BulletedListItem.RichText)
	case *notionapi.NumberedListItemBlock:
		// Always a literal "1.", markdown renumbers ordered lists on render.
		return "1. " + renderRichText(b.NumberedListItem.RichText)
	case *notionapi.ToDoBlock:
		if b.ToDo.Checked {
			return "- [x] " + renderRichText(b.ToDo.RichText)
		}
		return "- [ ] " + renderRichText(b.ToDo.RichText)
	case *notionapi.CodeBlock:
		return "```" + b.Code.Language + "\n" + plainText(b.Code.RichText) + "\n```"
	case *notionapi.QuoteBlock:
		return "> " + renderRichText(b.Quote.RichText)
	case *notionapi.CalloutBlock:
		text := renderRichText(b.Callout.RichText)
		if b.Callout.Icon != nil && b.Callout.Icon.Emoji != nil {
			return "> " + string(*b.Callout.Icon.Emoji) + " " + text
		}
		return "> " + text
	case *notionapi.DividerBlock:
		return "---"
	case *notionapi.ToggleBlock:
		// Children are appended by the walker, not nested inside the markup.
		return "<details><summary>" + renderRichText(b.Toggle.RichText) + "</summary></details>"
	case *notionapi.ImageBlock:
		caption := plainText(b.Image.Caption)
		if caption == "" {
			caption = "Image"
		}
		return "![" + caption + "](" + assetURL(b.Image.File, b.Image.External) + ")"
	case *notionapi.VideoBlock:
		url := assetURL(b.Video.File, b.Video.External)
		return "[Video: " + url + "](" + url + ")"
	case *notionapi.BookmarkBlock:
		return "[Bookmark: " + b.Bookmark.URL + "](" + b.Bookmark.URL + ")"
	case *notionapi.LinkPreviewBlock:
		return "[Link: " + b.LinkPreview.URL + "](" + b.LinkPreview.URL + ")"
	case *notionapi.EmbedBlock:
		return "[Embedded content: " + b.Embed.URL + "](" + b.Embed.URL + ")"
	case *notionapi.TableBlock:
		return "[Table - content extracted below]"
	case *notionapi.TableRowBlock:
		cells := make([]string, 0, len(b.TableRow.Cells))
		for _, cell := range b.TableRow.Cells {
			cells = append(cells, plainText(cell))
		}
		return "| " + strings.Join(cells, " | ") + " |"
	case *notionapi.ChildPageBlock:
		return "**[" + b.ChildPage.Title + "]**"
	case *notionapi.ChildDatabaseBlock:
		return "**[Database: " + b.ChildDatabase.Title + "]**"
	case *notionapi.SyncedBlock, *notionapi.ColumnListBlock, *notionapi.ColumnBlock:
		// Pure containers: nothing to print, children are still walked.
		return ""
	default:
		return fmt.Sprintf("[%s block]", block.GetType())
	}
}

func renderRichText(spans []notionapi.RichText) string {
	var b strings.Builder
	for _, span := range spans {
		b.WriteString(renderSpan(span))
	}
	return b.String()
}

func renderSpan(span notionapi.RichText) string {
	text := span.PlainText
	if a := span.Annotations; a != nil {
		if a.Code {
			text = "`" + text + "`"
		}
		if a.Bold {
			text = "**" + text + "**"
		}
		if a.Italic {
			text = "*" + text + "*"
		}
		if a.Strikethrough {
			text = "~~" + text + "~~"
		}
	}
	if span.Href != "" {
		text = "[" + text + "](" + span.Href + ")"
	}
	return text
}

func plainText(spans []notionapi.RichText) string {
	var b strings.Builder
	for _, span := range spans {
		b.WriteString(span.PlainText)
	}
	return b.String()
}

func assetURL(file, external *notionapi.FileObject) string {
	if external != nil && external.URL != "" {
		return external.URL
	}
	if file != nil {
		return file.URL
	}
	return ""
}
