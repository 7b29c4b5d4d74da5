package domain

// CreatePostRequest blog 작성 폼 (multipart; image is read separately)
type CreatePostRequest struct {
	Title   string `form:"title" json:"title" binding:"required,max=255"`
	Content string `form:"content" json:"content" binding:"max=100000"`
	// ImageURL lets API clients attach an already-hosted image instead of uploading
	ImageURL string `form:"imageUrl" json:"imageUrl" binding:"omitempty,url,max=1024"`
}

// ToPost builds the store payload
func (r *CreatePostRequest) ToPost() *Post {
	return &Post{Title: r.Title, Content: r.Content, ImageURL: r.ImageURL}
}

// CreateEpisodeRequest podcast 등록 폼
type CreateEpisodeRequest struct {
	Title       string `form:"title" json:"title" binding:"required,max=255"`
	Description string `form:"description" json:"description" binding:"max=10000"`
	Link        string `form:"link" json:"link" binding:"required,url,max=1024"`
}

// ToEpisode builds the store payload
func (r *CreateEpisodeRequest) ToEpisode() *Episode {
	return &Episode{Title: r.Title, Description: r.Description, Link: r.Link}
}

// CreateGalleryRequest gallery 등록 폼 (multipart; image is read separately)
type CreateGalleryRequest struct {
	Title       string   `form:"title" json:"title" binding:"required,max=255"`
	Description string   `form:"description" json:"description" binding:"max=10000"`
	Category    Category `form:"category" json:"category" binding:"required,category"`
	ImageURL    string   `form:"imageUrl" json:"imageUrl" binding:"omitempty,url,max=1024"`
}

// ToGalleryItem builds the store payload
func (r *CreateGalleryRequest) ToGalleryItem() *GalleryItem {
	return &GalleryItem{Title: r.Title, Description: r.Description, Category: r.Category, ImageURL: r.ImageURL}
}

// LoginRequest admin sign-in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse issued access token
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// AdminProfile returned by /auth/me
type AdminProfile struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role"`
}

// CreatedResponse returned by admin create endpoints
type CreatedResponse struct {
	ID       string `json:"id"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// UploadResponse returned by the bare media upload endpoint
type UploadResponse struct {
	URL string `json:"url"`
}

// EpisodeView an episode as rendered by the podcast list, numbered by
// descending position in the full snapshot
type EpisodeView struct {
	Episode
	EpisodeNumber int `json:"episodeNumber"`
}

// RoleAdmin role claim carried by admin access tokens
const RoleAdmin = "admin"
