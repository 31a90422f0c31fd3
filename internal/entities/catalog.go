package entities

import "time"

// User is an account holder. Created on sign-up only.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"size:100" json:"firstName"`
	LastName  string    `gorm:"size:100" json:"lastName"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"` // bcrypt hash, hidden from JSON
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PublicUser is the user representation returned to clients.
type PublicUser struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Public strips the identifier and credential from the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

type Author struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"size:100" json:"firstName"`
	LastName  string    `gorm:"size:100" json:"lastName"`
	Books     []Book    `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Book struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"index;size:512" json:"title"`
	Subtitle    string    `gorm:"size:512" json:"subtitle"`
	Published   string    `gorm:"size:64" json:"published"`
	Publisher   string    `gorm:"size:256" json:"publisher"`
	Pages       int       `json:"pages"`
	Description string    `gorm:"type:text" json:"description"`
	Website     string    `gorm:"size:2048" json:"website"`
	AuthorID    *uint     `gorm:"index" json:"authorId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Genre struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:100" json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookGenre links a book to a genre. Rows are written only while the book is
// being created and removed when either side is deleted.
type BookGenre struct {
	BookID    uint      `gorm:"primaryKey;autoIncrement:false" json:"bookId"`
	GenreID   uint      `gorm:"primaryKey;autoIncrement:false;index" json:"genreId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (BookGenre) TableName() string {
	return "book_genres"
}
