package catalog

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// MaxCategoryDepth is the maximum depth of category hierarchy
const MaxCategoryDepth = 2

// Category groups products, e.g. "Phòng khách" > "Sofa".
type Category struct {
	shared.BaseEntity
	Name      string
	Slug      string
	ParentID  *uuid.UUID
	SortOrder int
}

// NewCategory creates a new root category
func NewCategory(name, slug string) (*Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	resolved, err := resolveSlug(slug, name)
	if err != nil {
		return nil, err
	}
	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Slug:       resolved,
	}, nil
}

// NewChildCategory creates a new child category under a root category
func NewChildCategory(name, slug string, parent *Category) (*Category, error) {
	if parent == nil {
		return nil, shared.NewDomainError("INVALID_PARENT", "Parent category is required")
	}
	if !parent.IsRoot() {
		return nil, shared.NewDomainError("MAX_DEPTH_EXCEEDED",
			fmt.Sprintf("Categories can only be nested %d levels deep", MaxCategoryDepth))
	}
	c, err := NewCategory(name, slug)
	if err != nil {
		return nil, err
	}
	parentID := parent.ID
	c.ParentID = &parentID
	return c, nil
}

// Update renames the category. An empty slug keeps the current one.
func (c *Category) Update(name, slug string) error {
	if err := validateCategoryName(name); err != nil {
		return err
	}
	if slug != "" {
		resolved, err := resolveSlug(slug, name)
		if err != nil {
			return err
		}
		c.Slug = resolved
	}
	c.Name = name
	c.Touch()
	return nil
}

// SetSortOrder sets the display order of the category
func (c *Category) SetSortOrder(order int) {
	c.SortOrder = order
	c.Touch()
}

// IsRoot returns true if this is a top-level category
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

func validateCategoryName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	return nil
}

func resolveSlug(slug, fallback string) (string, error) {
	if slug == "" {
		slug = fallback
	}
	resolved := valueobject.Slugify(slug)
	if resolved == "" {
		return "", shared.NewDomainError("INVALID_SLUG", "Slug must contain at least one letter or digit")
	}
	return resolved, nil
}

// CategoryNode is a root category with its children, as rendered in menus.
type CategoryNode struct {
	Category Category
	Children []Category
}

// BuildCategoryTree groups a flat category list into root nodes ordered by
// sort order then name. Children whose parent is missing are dropped.
func BuildCategoryTree(categories []Category) []CategoryNode {
	byOrder := func(list []Category) {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].SortOrder != list[j].SortOrder {
				return list[i].SortOrder < list[j].SortOrder
			}
			return list[i].Name < list[j].Name
		})
	}

	children := make(map[uuid.UUID][]Category)
	var roots []Category
	for _, c := range categories {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}
	byOrder(roots)

	nodes := make([]CategoryNode, 0, len(roots))
	for _, r := range roots {
		kids := children[r.ID]
		byOrder(kids)
		if kids == nil {
			kids = []Category{}
		}
		nodes = append(nodes, CategoryNode{Category: r, Children: kids})
	}
	return nodes
}

// CategoryWithDescendants returns id plus the ids of its direct children.
func CategoryWithDescendants(id uuid.UUID, categories []Category) map[uuid.UUID]struct{} {
	ids := map[uuid.UUID]struct{}{id: {}}
	for _, c := range categories {
		if c.ParentID != nil && *c.ParentID == id {
			ids[c.ID] = struct{}{}
		}
	}
	return ids
}
