package shared

// Site-surface modules: VIP programme, homepage feed, settings, contacts, media.
const (
	ModuleVIP      = "vip"
	ModuleHomepage = "homepage"
	ModuleSettings = "settings"
	ModuleContacts = "contacts"
	ModuleMedia    = "media"
)

// SiteScopes lists all permissions for the site-surface modules.
func SiteScopes() []string {
	return []string{
		ModuleVIP + "." + ActionView,
		ModuleVIP + "." + ActionCreate,
		ModuleVIP + "." + ActionEdit,
		ModuleVIP + "." + ActionDelete,
		ModuleHomepage + "." + ActionView,
		ModuleHomepage + "." + ActionCreate,
		ModuleHomepage + "." + ActionEdit,
		ModuleHomepage + "." + ActionDelete,
		ModuleSettings + "." + ActionView,
		ModuleSettings + "." + ActionEdit,
		ModuleContacts + "." + ActionView,
		ModuleContacts + "." + ActionEdit,
		ModuleContacts + "." + ActionDelete,
		ModuleMedia + "." + ActionCreate,
		ModuleMedia + "." + ActionDelete,
	}
}
