package store

import (
	"time"

	"github.com/uptrace/bun"
)

// Page is a company page sourced from the upstream provider. page_id is the
// vanity slug a caller addresses the page by; linkedin_id is the
// provider-issued identifier and stays null until the first successful
// fetch.
type Page struct {
	bun.BaseModel `bun:"table:pages,alias:p"`

	ID         int64   `bun:"id,pk,autoincrement"`
	PageID     string  `bun:"page_id,notnull,unique"`
	LinkedInID *string `bun:"linkedin_id,unique"`

	Name                string `bun:"name,notnull"`
	URL                 string `bun:"url"`
	ProfilePictureURL   string `bun:"profile_picture_url"`
	ProfilePictureS3URL string `bun:"profile_picture_s3_url"`
	Description         string `bun:"description"`
	Tagline             string `bun:"tagline"`

	Website      string `bun:"website"`
	Industry     string `bun:"industry"`
	CompanySize  string `bun:"company_size"`
	Headquarters string `bun:"headquarters"`
	FoundedYear  *int   `bun:"founded_year"`
	CompanyType  string `bun:"company_type"`

	FollowerCount int `bun:"follower_count,notnull,default:0"`
	EmployeeCount int `bun:"employee_count,notnull,default:0"`

	Specialties []string `bun:"specialties"`
	Locations   []string `bun:"locations"`

	CreatedAt     time.Time  `bun:"created_at,notnull,nullzero,default:current_timestamp"`
	UpdatedAt     time.Time  `bun:"updated_at,nullzero"`
	LastScrapedAt *time.Time `bun:"last_scraped_at"`
}

// Post belongs to exactly one Page and is removed with it.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:po"`

	ID      int64  `bun:"id,pk,autoincrement"`
	PostID  string `bun:"post_id,notnull,unique"`
	PageRef int64  `bun:"page_ref,notnull"`

	Text        string `bun:"text"`
	ContentType string `bun:"content_type"`

	MediaURL   string `bun:"media_url"`
	MediaS3URL string `bun:"media_s3_url"`
	MediaType  string `bun:"media_type"`

	LikeCount    int `bun:"like_count,notnull,default:0"`
	CommentCount int `bun:"comment_count,notnull,default:0"`
	ShareCount   int `bun:"share_count,notnull,default:0"`
	ViewCount    int `bun:"view_count,notnull,default:0"`

	PostedAt    *time.Time `bun:"posted_at"`
	AuthorName  string     `bun:"author_name"`
	AuthorTitle string     `bun:"author_title"`

	Hashtags []string `bun:"hashtags"`
	Mentions []string `bun:"mentions"`

	CreatedAt time.Time `bun:"created_at,notnull,nullzero,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero"`
}

// Comment belongs to exactly one Post and is removed with it. A reply keeps a
// back-reference to its parent comment; that reference does not cascade, only
// the Post boundary does.
type Comment struct {
	bun.BaseModel `bun:"table:comments,alias:c"`

	ID        int64  `bun:"id,pk,autoincrement"`
	CommentID string `bun:"comment_id,notnull,unique"`
	PostRef   int64  `bun:"post_ref,notnull"`

	Text string `bun:"text"`

	AuthorID             string `bun:"author_id"`
	AuthorName           string `bun:"author_name"`
	AuthorTitle          string `bun:"author_title"`
	AuthorProfileURL     string `bun:"author_profile_url"`
	AuthorProfilePicture string `bun:"author_profile_picture"`

	LikeCount  int `bun:"like_count,notnull,default:0"`
	ReplyCount int `bun:"reply_count,notnull,default:0"`

	ParentCommentID *int64 `bun:"parent_comment_id"`

	CommentedAt *time.Time `bun:"commented_at"`
	CreatedAt   time.Time  `bun:"created_at,notnull,nullzero,default:current_timestamp"`
}

// Employee is a person associated with a Page. The three status flags are
// independent: someone can follow the page, be followed back and be on
// payroll in any combination.
type Employee struct {
	bun.BaseModel `bun:"table:employees,alias:e"`

	ID         int64  `bun:"id,pk,autoincrement"`
	LinkedInID string `bun:"linkedin_id,notnull,unique"`
	PageRef    int64  `bun:"page_ref,notnull"`

	FirstName string `bun:"first_name"`
	LastName  string `bun:"last_name"`
	FullName  string `bun:"full_name"`
	Headline  string `bun:"headline"`

	ProfileURL          string `bun:"profile_url"`
	ProfilePictureURL   string `bun:"profile_picture_url"`
	ProfilePictureS3URL string `bun:"profile_picture_s3_url"`

	CurrentTitle   string `bun:"current_title"`
	CurrentCompany string `bun:"current_company"`

	Location string `bun:"location"`
	Country  string `bun:"country"`

	Industry         string `bun:"industry"`
	ConnectionsCount *int   `bun:"connections_count"`

	IsFollowing bool `bun:"is_following,notnull,default:false"`
	IsFollower  bool `bun:"is_follower,notnull,default:false"`
	IsEmployee  bool `bun:"is_employee,notnull,default:true"`

	Skills            []string `bun:"skills"`
	ExperienceSummary []string `bun:"experience_summary"`
	EducationSummary  []string `bun:"education_summary"`

	CreatedAt time.Time `bun:"created_at,notnull,nullzero,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero"`
}
