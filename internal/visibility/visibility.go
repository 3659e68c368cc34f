package visibility

import (
	"github.com/medicare-hq/staff-console/internal/model"
)

// Tab is one of the staff workspaces.
type Tab string

const (
	TabOverview     Tab = "overview"
	TabAppointments Tab = "appointments"
	TabLab          Tab = "lab"
	TabPharmacy     Tab = "pharmacy"
)

// View is what a role is allowed to see and where it lands.
type View struct {
	DefaultTab Tab   `json:"default_tab"`
	Tabs       []Tab `json:"tabs"`
}

// Resolve maps a staff role to its workspace view. Pure function, no
// side effects: admin sees every workspace and lands on the overview,
// every other role sees exactly its own queue.
func Resolve(role model.Role) View {
	switch role {
	case model.RoleDoctor:
		return View{DefaultTab: TabAppointments, Tabs: []Tab{TabAppointments}}
	case model.RoleLab:
		return View{DefaultTab: TabLab, Tabs: []Tab{TabLab}}
	case model.RolePharmacist:
		return View{DefaultTab: TabPharmacy, Tabs: []Tab{TabPharmacy}}
	case model.RoleAdmin:
		return View{
			DefaultTab: TabOverview,
			Tabs:       []Tab{TabAppointments, TabLab, TabPharmacy},
		}
	default:
		// Unknown roles see nothing.
		return View{}
	}
}

// Visible reports whether a role may see and act on a workspace. No
// action affordance outside this set is reachable, even when the
// registry holds data for it.
func Visible(role model.Role, tab Tab) bool {
	if tab == TabOverview {
		return role == model.RoleAdmin
	}
	for _, t := range Resolve(role).Tabs {
		if t == tab {
			return true
		}
	}
	return false
}
