package models

// Submission status of a session's confirmation dispatch.
const (
	StatusIdle    = "idle"
	StatusSending = "sending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// Wizard steps, in order.
const (
	StepPlan = iota
	StepSchedule
	StepContact
	StepSummary

	TotalSteps = 4
)

const (
	// DefaultNotes replaces an empty notes field in the confirmation email.
	DefaultNotes = "Sin notas adicionales"

	// SubjectPrefix opens every confirmation subject line.
	SubjectPrefix = "Reserva confirmada - "

	// BrandName is the subject fallback when no service title is resolved.
	BrandName = "The Neva Group"

	// DefaultCTAURL is the call-to-action link embedded in the email.
	DefaultCTAURL = "https://reservas.thenevagroup.com/reservas"

	// DefaultSessionTTLHours время жизни сессии мастера в хранилище
	DefaultSessionTTLHours = 24
)

// ErrMsg* are the user-facing dispatch failure messages. The precondition
// message and the transport message are deliberately distinct so the shell
// can tell "go back and fill the form" from "try confirming again".
const (
	ErrMsgMissingData = "Faltan datos para confirmar la reserva."
	ErrMsgSendFailed  = "No se pudo enviar el correo de confirmación."
)

// DefaultSlots are the bookable time-of-day labels. Slots are not tied to a
// calendar day; there is no availability tracking.
func DefaultSlots() []string {
	return []string{"09:30", "11:00", "12:30", "15:00", "16:30"}
}

// DefaultServices is the built-in catalog, used when config defines none.
func DefaultServices() []Service {
	return []Service{
		{
			ID:          "esencial",
			Title:       "Paquete Esencial",
			Description: "Presencia digital sólida para negocios que necesitan salir al aire sin complejidad extra.",
			Setup:       "450 € instalación única",
			Retainer:    "12 € / mes · 80 € anual anticipado",
			Bullets: []string{
				"Dominio, hosting y correo corporativo gestionados",
				"Plantilla optimizada con inicio, servicios y contacto",
				"Identidad visual aplicada, responsive y formulario activo",
			},
			Limit: "Sin desarrollos a medida ni integraciones externas. Ideal para sitios ligeros.",
		},
		{
			ID:          "pro",
			Title:       "Paquete Pro",
			Description: "Para catálogos, tiendas o integraciones que necesitan arquitectura flexible y soporte prioritario.",
			Setup:       "900 € instalación única",
			Retainer:    "25 € / mes · 230 € anual anticipado",
			Bullets: []string{
				"Incluye todo lo del paquete Esencial",
				"Estructura extendida para catálogos o comercio",
				"Pasarela de pago o conectores con servicios externos",
			},
			Limit: "Quedan fuera desarrollos a medida, paneles propios o microservicios.",
		},
	}
}
