package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/dom/patch-meta/internal/domain"
	"github.com/dom/patch-meta/internal/extractor"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/language"
)

var patchLinkRe = regexp.MustCompile(`patch-(\d+)-(\d+)-notes`)

// fallbackPatches are always offered, whatever the tag pages list.
var fallbackPatches = []string{
	"25.23", "25.22", "25.21", "25.20", "25.19",
	"25.18", "25.17", "25.16", "25.15", "25.14",
	"25.13", "25.12", "25.11", "25.10", "25.09",
	"25.08", "25.07", "25.06", "25.05", "25.04",
}

// PatchNotesURL is the localized article URL of a patch version.
func (c *Client) PatchNotesURL(version string) string {
	slug := "patch-" + strings.ReplaceAll(version, ".", "-") + "-notes"
	return fmt.Sprintf("%s/%s/news/game-updates/%s/", c.siteBaseURL, sitePath(c.locale), slug)
}

func (c *Client) tagPageURL(tag language.Tag) string {
	return fmt.Sprintf("%s/%s/news/tags/patch-notes/", c.siteBaseURL, sitePath(tag))
}

// FetchPatchNotes downloads and extracts the notes of one patch version.
func (c *Client) FetchPatchNotes(ctx context.Context, version string) ([]domain.PatchNoteEntry, error) {
	if !ValidVersion(version) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidVersion, version)
	}
	page, err := c.FetchPage(ctx, c.PatchNotesURL(version))
	if err != nil {
		return nil, err
	}
	return extractor.ExtractHTML(bytes.NewReader(page)), nil
}

// AvailablePatches lists patch versions linked from the localized and English
// tag pages, merged with the fallback list, newest first. Tag pages that fail
// to load are skipped.
func (c *Client) AvailablePatches(ctx context.Context) []string {
	seen := make(map[string]bool)
	var versions []string
	add := func(v string) {
		if !seen[v] {
			seen[v] = true
			versions = append(versions, v)
		}
	}

	pages := []language.Tag{c.locale}
	if sitePath(c.locale) != sitePath(language.AmericanEnglish) {
		pages = append(pages, language.AmericanEnglish)
	}
	for _, tag := range pages {
		url := c.tagPageURL(tag)
		page, err := c.FetchPage(ctx, url)
		if err != nil {
			log.Printf("WARN [scraper.AvailablePatches] tag page %s: %v", url, err)
			continue
		}
		found, err := versionsFromTagPage(page)
		if err != nil {
			log.Printf("WARN [scraper.AvailablePatches] parse %s: %v", url, err)
			continue
		}
		for _, v := range found {
			add(v)
		}
	}

	for _, v := range fallbackPatches {
		add(v)
	}

	SortVersionsDesc(versions)
	return versions
}

// versionsFromTagPage collects versions from every link whose href mentions a patch.
func versionsFromTagPage(page []byte) ([]string, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, err
	}

	var versions []string
	for n := range doc.Descendants() {
		if n.Type != html.ElementNode || n.DataAtom != atom.A {
			continue
		}
		for _, a := range n.Attr {
			if a.Key != "href" || !strings.Contains(a.Val, "patch-") {
				continue
			}
			if m := patchLinkRe.FindStringSubmatch(a.Val); m != nil {
				versions = append(versions, m[1]+"."+m[2])
			}
		}
	}
	return versions, nil
}

// ValidVersion reports whether v looks like "<major>.<minor>".
func ValidVersion(v string) bool {
	major, minor, ok := strings.Cut(v, ".")
	if !ok {
		return false
	}
	_, errMajor := strconv.Atoi(major)
	_, errMinor := strconv.Atoi(minor)
	return errMajor == nil && errMinor == nil
}

// SortVersionsDesc orders versions by numeric major then minor, newest first.
// Unparseable parts count as zero.
func SortVersionsDesc(versions []string) {
	slices.SortStableFunc(versions, func(a, b string) int {
		aMajor, aMinor := versionParts(a)
		bMajor, bMinor := versionParts(b)
		if aMajor != bMajor {
			return bMajor - aMajor
		}
		return bMinor - aMinor
	})
}

func versionParts(v string) (int, int) {
	major, minor, _ := strings.Cut(v, ".")
	ma, _ := strconv.Atoi(major)
	mi, _ := strconv.Atoi(minor)
	return ma, mi
}
