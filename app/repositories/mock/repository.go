package mock

import (
	"encoding/json"
	"sync"

	"inkwell/app/models"
	"inkwell/app/repositories"
)

// PostRepository is an in-memory repositories.PostRepository. Posts are
// copied on the way in and out so callers cannot mutate stored state without
// calling Update, the same as with the badger store.
type PostRepository struct {
	posts map[string]*models.Post
	slugs map[string]string
	mutex sync.RWMutex
}

type CategoryRepository struct {
	categories map[string]*models.Category
	slugs      map[string]string
	mutex      sync.RWMutex
}

type UserRepository struct {
	users  map[string]*models.User
	emails map[string]string
	mutex  sync.RWMutex
}

func NewPostRepository() *PostRepository {
	return &PostRepository{
		posts: make(map[string]*models.Post),
		slugs: make(map[string]string),
	}
}

func (m *PostRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.posts = make(map[string]*models.Post)
	m.slugs = make(map[string]string)
}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{
		categories: make(map[string]*models.Category),
		slugs:      make(map[string]string),
	}
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:  make(map[string]*models.User),
		emails: make(map[string]string),
	}
}

// PostRepository implementation
func (m *PostRepository) Create(post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if owner, taken := m.slugs[post.Slug]; taken && owner != post.ID {
		return repositories.ErrSlugTaken
	}
	m.slugs[post.Slug] = post.ID
	m.posts[post.ID] = clone(post)
	return nil
}

func (m *PostRepository) GetByID(id string) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return clone(post), nil
}

func (m *PostRepository) GetBySlug(slug string) (*models.Post, error) {
	m.mutex.RLock()
	id, exists := m.slugs[slug]
	m.mutex.RUnlock()
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return m.GetByID(id)
}

func (m *PostRepository) Update(post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	existing, exists := m.posts[post.ID]
	if !exists {
		return repositories.ErrNotFound
	}
	if existing.Slug != post.Slug {
		if owner, taken := m.slugs[post.Slug]; taken && owner != post.ID {
			return repositories.ErrSlugTaken
		}
		delete(m.slugs, existing.Slug)
		m.slugs[post.Slug] = post.ID
	}
	m.posts[post.ID] = clone(post)
	return nil
}

func (m *PostRepository) Delete(id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	existing, exists := m.posts[id]
	if !exists {
		return repositories.ErrNotFound
	}
	delete(m.slugs, existing.Slug)
	delete(m.posts, id)
	return nil
}

func (m *PostRepository) List(filter repositories.PostFilter, limit, offset int) ([]*models.Post, int, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var posts []*models.Post
	for _, post := range m.posts {
		if filter.Match(post) {
			posts = append(posts, clone(post))
		}
	}
	repositories.SortNewestFirst(posts)
	return repositories.Paginate(posts, limit, offset), len(posts), nil
}

// CategoryRepository implementation
func (m *CategoryRepository) Create(category *models.Category) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if owner, taken := m.slugs[category.Slug]; taken && owner != category.ID {
		return repositories.ErrSlugTaken
	}
	m.slugs[category.Slug] = category.ID
	c := *category
	m.categories[category.ID] = &c
	return nil
}

func (m *CategoryRepository) GetByID(id string) (*models.Category, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	category, exists := m.categories[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	c := *category
	return &c, nil
}

func (m *CategoryRepository) List() ([]*models.Category, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	categories := make([]*models.Category, 0, len(m.categories))
	for _, category := range m.categories {
		c := *category
		categories = append(categories, &c)
	}
	repositories.SortCategoriesByName(categories)
	return categories, nil
}

// UserRepository implementation
func (m *UserRepository) Create(user *models.User) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if owner, taken := m.emails[user.Email]; taken && owner != user.ID {
		return repositories.ErrEmailTaken
	}
	m.emails[user.Email] = user.ID
	u := *user
	m.users[user.ID] = &u
	return nil
}

func (m *UserRepository) GetByID(id string) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	u := *user
	return &u, nil
}

func (m *UserRepository) GetByEmail(email string) (*models.User, error) {
	m.mutex.RLock()
	id, exists := m.emails[models.NormalizeEmail(email)]
	m.mutex.RUnlock()
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return m.GetByID(id)
}

func clone(post *models.Post) *models.Post {
	data, err := json.Marshal(post)
	if err != nil {
		panic(err)
	}
	var out models.Post
	if err := json.Unmarshal(data, &out); err != nil {
		panic(err)
	}
	return &out
}
