package shared

// Content module permissions. Names follow the "<module>.<action>" form used
// across the permission catalog.
const (
	ModuleCategories = "categories"
	ModuleTenants    = "tenants"
	ModulePosts      = "posts"
	ModuleEvents     = "events"
	ModulePromotions = "promotions"

	ActionView    = "view"
	ActionCreate  = "create"
	ActionEdit    = "edit"
	ActionDelete  = "delete"
	ActionPublish = "publish"
)

// ContentScopes lists all permissions for the content modules.
func ContentScopes() []string {
	modules := []string{ModuleCategories, ModuleTenants, ModulePosts, ModuleEvents, ModulePromotions}
	actions := []string{ActionView, ActionCreate, ActionEdit, ActionDelete}
	scopes := make([]string, 0, len(modules)*len(actions)+3)
	for _, m := range modules {
		for _, a := range actions {
			scopes = append(scopes, m+"."+a)
		}
	}
	scopes = append(scopes,
		ModulePosts+"."+ActionPublish,
		ModuleEvents+"."+ActionPublish,
		ModulePromotions+"."+ActionPublish,
	)
	return scopes
}
