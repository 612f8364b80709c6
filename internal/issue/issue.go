// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	MalformedPluginCacheId Id = iota + 1
	DuplicatePluginId
	UnsupportedCompressionId
	CorruptEntryId
	JarOpenFailedId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id
	mdMsg    MarkdownMsg
	docLinks []HttpLink // never empty
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Title returns the first top-level heading of the message.
func (i *Issue) Title() string {
	for line := range strings.Lines(string(i.mdMsg)) {
		if title, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return title
		}
	}
	return ""
}

// Render renders the issue as terminal Markdown using the named glamour
// style ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

const pluginDocs HttpLink = "https://logging.apache.org/log4j/2.x/manual/plugins.html"

var (
	render = glamour.Render

	malformedPluginCacheIssue = &Issue{
		id: MalformedPluginCacheId,
		mdMsg: `
# A Log4j2 plugin cache could not be read

One of the input jars carries a ` + "`Log4j2Plugins.dat`" + ` that ends early, declares
impossible counts, or has bytes after its last category.

## Things you can try
- Rebuild the offending jar so the annotation processor regenerates the cache.
- Inspect the entry:
~~~
$ singlejar dump path/to/input.jar
~~~`,
		docLinks: []HttpLink{pluginDocs},
	}

	duplicatePluginIssue = &Issue{
		id: DuplicatePluginId,
		mdMsg: `
# The same Log4j2 plugin is defined by two jars

Duplicate checking is enabled, and two inputs register a plugin under the same
category and key. Only one of them can end up in the combined cache.

## Things you can try
- Remove one of the jars from the input list.
- Allow the later jar to win:
~~~
$ singlejar merge --no-duplicates=false -o out.jar a.jar b.jar
~~~`,
		docLinks: []HttpLink{pluginDocs},
	}

	unsupportedCompressionIssue = &Issue{
		id: UnsupportedCompressionId,
		mdMsg: `
# Unsupported compression method

A plugin cache entry is neither stored nor deflated. Only zip methods 0 and 8
can be merged.

## Things you can try
- Repack the jar with a standard ` + "`jar`" + ` or ` + "`zip`" + ` tool.`,
		docLinks: []HttpLink{"https://pkware.cachefly.net/webdocs/casestudies/APPNOTE.TXT"},
	}

	corruptEntryIssue = &Issue{
		id: CorruptEntryId,
		mdMsg: `
# Corrupt jar entry

An entry's contents do not match the size or CRC-32 recorded in its jar.

## Things you can try
- Verify the jar:
~~~
$ unzip -t path/to/input.jar
~~~
- Download or rebuild the jar.`,
		docLinks: []HttpLink{"https://pkware.cachefly.net/webdocs/casestudies/APPNOTE.TXT"},
	}

	jarOpenFailedIssue = &Issue{
		id: JarOpenFailedId,
		mdMsg: `
# A jar could not be opened

The path does not exist, is not readable, or is not a zip archive.

## Things you can try
- Check the path and permissions.
- Make sure the file is a jar and not, for example, a pom or a checksum.`,
		docLinks: []HttpLink{"https://docs.oracle.com/javase/8/docs/technotes/guides/jar/jar.html"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

The configuration file could not be parsed or does not match the schema.

## Things you can try
- Print the effective configuration:
~~~
$ singlejar config show
~~~
- Allowed keys are ` + "`no_duplicates`, `compress`, `log_level`, `resource`" + ` and ` + "`color_scheme`" + `.`,
		docLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	issues = map[Id]*Issue{
		malformedPluginCacheIssue.Id():   malformedPluginCacheIssue,
		duplicatePluginIssue.Id():        duplicatePluginIssue,
		unsupportedCompressionIssue.Id(): unsupportedCompressionIssue,
		corruptEntryIssue.Id():           corruptEntryIssue,
		jarOpenFailedIssue.Id():          jarOpenFailedIssue,
		configLoadFailedIssue.Id():       configLoadFailedIssue,
	}
)

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, v := range issues {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}
