// Package policy decides whether a principal may act on a resource. Every
// handler path, single-item and collection alike, goes through Authorize.
package policy

// Principal is the caller of a request. The zero value is the anonymous principal.
type Principal struct {
	UserID  int64
	IsAdmin bool
}

// Anonymous returns the unauthenticated principal.
func Anonymous() Principal { return Principal{} }

// Authenticated reports whether the principal carries an identity.
func (p Principal) Authenticated() bool { return p.UserID != 0 }

// Operation is the kind of access requested.
type Operation string

const (
	Read   Operation = "read"
	Write  Operation = "write"
	Delete Operation = "delete"
)

// Kind identifies a resource type.
type Kind string

const (
	KindProduct      Kind = "product"
	KindImage        Kind = "image"
	KindPropertyType Kind = "property_type"
	KindProperty     Kind = "property"
	KindBrand        Kind = "brand"
	KindCategory     Kind = "category"
	KindGallery      Kind = "gallery"
	KindDiscount     Kind = "discount"
	KindCartItem     Kind = "cart_item"
	KindOrder        Kind = "order"
	KindOrderStatus  Kind = "order_status"
	KindOrderItem    Kind = "order_item"
	KindLikedItem    Kind = "liked_item"
	KindVersusItem   Kind = "versus_item"
	KindMessage      Kind = "message"
	KindUser         Kind = "user"
	KindUserList     Kind = "user_list"
	KindUpload       Kind = "upload"
)

type class int

const (
	// catalog: public reads, seller-owned writes, admin override.
	classCatalog class = iota
	// admin: public reads, admin-only writes.
	classAdmin
	// personal: every operation requires ownership, no admin override.
	classPersonal
	// adminOnly: every operation requires admin.
	classAdminOnly
	// member: any authenticated principal.
	classMember
)

var classes = map[Kind]class{
	KindProduct:      classCatalog,
	KindImage:        classCatalog,
	KindPropertyType: classCatalog,
	KindProperty:     classCatalog,
	KindBrand:        classAdmin,
	KindCategory:     classAdmin,
	KindGallery:      classAdmin,
	KindDiscount:     classAdmin,
	KindOrderStatus:  classAdminOnly,
	KindUserList:     classAdminOnly,
	KindCartItem:     classPersonal,
	KindOrder:        classPersonal,
	KindOrderItem:    classPersonal,
	KindLikedItem:    classPersonal,
	KindVersusItem:   classPersonal,
	KindMessage:      classPersonal,
	KindUser:         classPersonal,
	KindUpload:       classMember,
}

// Resource describes the target of a request. OwnerID is nil for resources
// without an owner (brands, categories) and for collections that are not
// scoped to a user.
type Resource struct {
	Kind    Kind
	OwnerID *int64
}

// Owned builds a resource owned by ownerID.
func Owned(kind Kind, ownerID int64) Resource {
	return Resource{Kind: kind, OwnerID: &ownerID}
}

// Unowned builds a resource without an owner.
func Unowned(kind Kind) Resource {
	return Resource{Kind: kind}
}

// Reasons attached to a denial.
const (
	ReasonAuthRequired  = "authentication required"
	ReasonNotOwner      = "not owner"
	ReasonAdminRequired = "admin required"
	ReasonUnknownKind   = "unknown resource"
)

// Decision is the verdict of Authorize.
type Decision struct {
	Allowed bool
	Reason  string
}

var allow = Decision{Allowed: true}

func deny(reason string) Decision { return Decision{Reason: reason} }

// Authorize applies the access rules for p acting on r with op.
func Authorize(p Principal, r Resource, op Operation) Decision {
	c, ok := classes[r.Kind]
	if !ok {
		return deny(ReasonUnknownKind)
	}

	// Catalog browsing is public.
	if op == Read && (c == classCatalog || c == classAdmin) {
		return allow
	}

	if !p.Authenticated() {
		return deny(ReasonAuthRequired)
	}

	switch c {
	case classMember:
		return allow
	case classAdmin, classAdminOnly:
		if p.IsAdmin {
			return allow
		}
		return deny(ReasonAdminRequired)
	case classCatalog:
		if p.IsAdmin || isOwner(p, r) {
			return allow
		}
		return deny(ReasonNotOwner)
	case classPersonal:
		if isOwner(p, r) {
			return allow
		}
		return deny(ReasonNotOwner)
	}
	return deny(ReasonUnknownKind)
}

func isOwner(p Principal, r Resource) bool {
	return r.OwnerID != nil && *r.OwnerID == p.UserID
}

// Filter keeps the items of a collection that p may perform op on. owner
// extracts the owning user id of an item.
func Filter[T any](p Principal, kind Kind, op Operation, items []T, owner func(T) int64) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if Authorize(p, Owned(kind, owner(it)), op).Allowed {
			out = append(out, it)
		}
	}
	return out
}
