package validation

// RegisterInput is the signup payload. Email and password may be omitted for
// social signups, identified by the presence of social_id.
type RegisterInput struct {
	Fullname    string `json:"fullname" rules:"required" validate:"max=100"`
	Username    string `json:"username" rules:"required" validate:"max=50"`
	Email       string `json:"email" rules:"required_without=social_id" validate:"email,max=100"`
	Password    string `json:"password" rules:"required_without=social_id,allow_empty_if=social_id" validate:"min=6,max=255"`
	SocialID    string `json:"social_id" rules:"allow_empty"`
	CountryCode string `json:"country_code" rules:"allow_empty" validate:"max=10"`
	Phone       string `json:"phone" rules:"allow_empty" validate:"max=20"`
	ProfilePic  string `json:"profile_pic" rules:"allow_empty" validate:"url"`
}

// LoginInput accepts an email or a phone number as the login identifier.
type LoginInput struct {
	LoginEmailPhone string `json:"login_email_phone" rules:"required" messages:"required=Email or phone is required;empty=Email or phone cannot be empty"`
	Password        string `json:"password" rules:"required_without=social_id,allow_empty_if=social_id" validate:"min=6,max=255" messages:"required=Password is required for normal login;min=Password must be at least 6 characters"`
	SocialID        string `json:"social_id" rules:"allow_empty"`
}

// ChangePasswordInput proves the old password before setting a new one.
type ChangePasswordInput struct {
	OldPassword string `json:"old_password" rules:"required"`
	NewPassword string `json:"new_password" rules:"required" validate:"min=6"`
}

type ResetPasswordInput struct {
	NewPassword string `json:"new_password" rules:"required" validate:"min=6"`
}

// EditProfileInput only touches the fields that are present.
type EditProfileInput struct {
	Fullname    *string `json:"fullname"`
	Username    *string `json:"username" validate:"username,min=3,max=30"`
	Email       *string `json:"email" validate:"email"`
	CountryCode *string `json:"country_code"`
	Phone       *string `json:"phone"`
	ProfilePic  *string `json:"profile_pic" validate:"url"`
}

type CreatePostInput struct {
	Title      string `json:"title" rules:"required" validate:"max=255"`
	Content    string `json:"content" rules:"required"`
	ImageURL   string `json:"image_url" rules:"allow_empty" validate:"url"`
	CategoryID *uint  `json:"category_id"`
}

// UpdatePostInput is a partial update; an empty image_url clears the image.
type UpdatePostInput struct {
	Title      *string `json:"title" validate:"max=255"`
	Content    *string `json:"content"`
	ImageURL   *string `json:"image_url" rules:"allow_empty" validate:"url"`
	CategoryID *uint   `json:"category_id"`
}

func (*UpdatePostInput) MinKeys() int { return 1 }

type CreateCommentInput struct {
	Comment string `json:"comment" rules:"required"`
	PostID  uint   `json:"post_id" rules:"required"`
}

type UpdateCommentInput struct {
	Comment string `json:"comment" rules:"required"`
}
