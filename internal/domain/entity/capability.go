package entity

// Capabilities lists what a role may reach in the dashboard. It is computed once per session.
type Capabilities struct {
	Role   string   `json:"rol"`
	Routes []string `json:"routes"`
	Menu   []string `json:"menu"`
}

var capabilityTable = map[string]Capabilities{
	RolePatient: {
		Routes: []string{"/dashboard/inicio", "/dashboard/paciente", "/dashboard/notificaciones", "/dashboard/perfil"},
		Menu:   []string{"inicio", "mis-recetas", "notificaciones", "perfil"},
	},
	RoleDoctor: {
		Routes: []string{"/dashboard/inicio", "/dashboard/medico", "/dashboard/envio-recetas", "/dashboard/perfil"},
		Menu:   []string{"inicio", "envio-recetas", "pacientes", "perfil"},
	},
	RolePharmacist: {
		Routes: []string{"/dashboard/inicio", "/dashboard/farmaceutico", "/dashboard/dispensar-recetas", "/dashboard/medicamentos", "/dashboard/perfil"},
		Menu:   []string{"inicio", "dispensar-recetas", "medicamentos", "perfil"},
	},
	RoleAdmin: {
		Routes: []string{"/dashboard/inicio", "/dashboard/admin", "/dashboard/nuevos-registros", "/dashboard/usuarios-registrados", "/dashboard/registrar-administrador", "/dashboard/medicamentos", "/dashboard/perfil"},
		Menu:   []string{"inicio", "nuevos-registros", "usuarios-registrados", "registrar-administrador", "medicamentos", "perfil"},
	},
}

// CapabilitiesFor returns a copy of the capability set for role. Unknown roles get nothing.
func CapabilitiesFor(role string) Capabilities {
	c, ok := capabilityTable[role]
	if !ok {
		return Capabilities{Role: role, Routes: []string{}, Menu: []string{}}
	}
	return Capabilities{
		Role:   role,
		Routes: append([]string(nil), c.Routes...),
		Menu:   append([]string(nil), c.Menu...),
	}
}

// Allows reports whether the capability set contains route.
func (c Capabilities) Allows(route string) bool {
	for _, r := range c.Routes {
		if r == route {
			return true
		}
	}
	return false
}
