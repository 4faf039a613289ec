package linkedin

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/deepsolv/linkedin-insights/store"
)

var (
	hashtagPattern = regexp.MustCompile(`#(\w+)`)
	mentionPattern = regexp.MustCompile(`@(\w+)`)
)

func extractHashtags(text string) []string {
	return submatches(hashtagPattern, text)
}

func extractMentions(text string) []string {
	return submatches(mentionPattern, text)
}

func submatches(re *regexp.Regexp, text string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		out = append(out, m[1])
	}
	return out
}

// localizedValue prefers the en_US variant and otherwise falls back to the
// lexically-first one, so repeated decodes of the same payload agree.
func localizedValue(lt localizedText) string {
	if v, ok := lt.Localized["en_US"]; ok {
		return v
	}
	keys := make([]string, 0, len(lt.Localized))
	for k := range lt.Localized {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > 0 {
		return lt.Localized[keys[0]]
	}
	return ""
}

// staffCountLabel renders a staff range as "start-end", or "start+" when the
// range is open-ended.
func staffCountLabel(r *staffCountRange) string {
	if r == nil {
		return ""
	}
	if r.End != nil {
		return fmt.Sprintf("%d-%d", r.Start, *r.End)
	}
	return fmt.Sprintf("%d+", r.Start)
}

func locationLabel(loc orgLocation) string {
	switch {
	case loc.City != "" && loc.Country != "":
		return loc.City + ", " + loc.Country
	case loc.City != "":
		return loc.City
	default:
		return loc.Country
	}
}

// headquartersOf picks the location flagged as headquarters.
func headquartersOf(locations []orgLocation) string {
	for _, loc := range locations {
		if loc.IsHeadquarters {
			return locationLabel(loc)
		}
	}
	return ""
}

func locationLabels(locations []orgLocation) []string {
	var out []string
	for _, loc := range locations {
		if label := locationLabel(loc); label != "" {
			out = append(out, label)
		}
	}
	return out
}

// largestImageURL walks an image set and returns the identifier of the
// widest rendition, whichever resolution key the payload used.
func largestImageURL(set *imageSet) string {
	if set == nil {
		return ""
	}
	elements := set.Cropped
	if elements == nil {
		elements = set.DisplayImage
	}
	if elements == nil || len(elements.Elements) == 0 {
		return ""
	}

	best := elements.Elements[0]
	for _, el := range elements.Elements[1:] {
		if el.Data.Width > best.Data.Width {
			best = el
		}
	}
	if len(best.Identifiers) == 0 {
		return ""
	}
	return best.Identifiers[0].Identifier
}

// contentTypeOf maps the provider's share media category to our content
// type; a post with no category is plain text.
func contentTypeOf(sc shareContent) string {
	if sc.ShareMediaCategory != "" {
		return strings.ToLower(sc.ShareMediaCategory)
	}
	return "text"
}

// msEpoch converts a millisecond epoch to a UTC timestamp; zero means the
// provider did not send one.
func msEpoch(ms int64) *time.Time {
	if ms == 0 {
		return nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t
}

func normalizeOrganization(org organization, followers int) *store.Page {
	name := org.LocalizedName
	if name == "" {
		name = org.Name
	}
	description := org.LocalizedDescription
	if description == "" {
		description = org.Description
	}

	linkedinID := fmt.Sprintf("%d", org.ID)
	page := &store.Page{
		PageID:            org.VanityName,
		LinkedInID:        &linkedinID,
		Name:              name,
		URL:               "https://www.linkedin.com/company/" + org.VanityName,
		Description:       description,
		Website:           localizedValue(org.Website),
		CompanySize:       staffCountLabel(org.StaffCountRange),
		Headquarters:      headquartersOf(org.Locations),
		CompanyType:       org.OrganizationType,
		FollowerCount:     followers,
		Specialties:       org.Specialties,
		Locations:         locationLabels(org.Locations),
		ProfilePictureURL: largestImageURL(org.LogoV2),
	}
	if len(org.Industries) > 0 {
		page.Industry = org.Industries[0]
	}
	if org.FoundedOn != nil && org.FoundedOn.Year != 0 {
		year := org.FoundedOn.Year
		page.FoundedYear = &year
	}
	return page
}

func normalizePost(p ugcPost) *store.Post {
	sc := p.SpecificContent.ShareContent
	text := sc.ShareCommentary.Text

	post := &store.Post{
		PostID:       p.ID,
		Text:         text,
		ContentType:  contentTypeOf(sc),
		LikeCount:    p.SocialDetail.TotalLikes,
		CommentCount: p.SocialDetail.TotalComments,
		ShareCount:   p.SocialDetail.TotalShares,
		PostedAt:     msEpoch(p.Created.Time),
		Hashtags:     extractHashtags(text),
		Mentions:     extractMentions(text),
	}

	if len(sc.Media) > 0 {
		first := sc.Media[0]
		post.MediaType = first.MediaType
		post.MediaURL = first.OriginalURL
		if post.MediaURL == "" && len(first.Thumbnails) > 0 {
			post.MediaURL = first.Thumbnails[0].URL
		}
	}
	return post
}

func normalizeComment(c socialComment) *store.Comment {
	return &store.Comment{
		CommentID:   c.ID,
		Text:        c.Message.Text,
		AuthorID:    c.Actor,
		LikeCount:   c.LikesSummary.TotalLikes,
		CommentedAt: msEpoch(c.Created.Time),
	}
}

func normalizeMember(m member) *store.Employee {
	first := localizedValue(m.FirstName)
	last := localizedValue(m.LastName)

	emp := &store.Employee{
		LinkedInID:        m.ID,
		FirstName:         first,
		LastName:          last,
		FullName:          strings.TrimSpace(first + " " + last),
		Headline:          localizedValue(m.Headline),
		ProfilePictureURL: largestImageURL(m.ProfilePicture),
		Location:          m.Location.Name,
		Industry:          m.Industry,
		IsEmployee:        true,
	}
	if m.VanityName != "" {
		emp.ProfileURL = "https://www.linkedin.com/in/" + m.VanityName
	}
	return emp
}
