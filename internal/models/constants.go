package models

// Papéis de usuário
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Status de usuário
const (
	UserStatusActive    = "ativo"
	UserStatusSuspended = "suspenso"
	UserStatusBlocked   = "bloqueado"
)

// Tipos de anúncio
const (
	ListingTypeRequest = "pedido"
	ListingTypeService = "servico"
	ListingTypeProduct = "produto"
)

// Modalidades de serviço
const (
	ServiceTypeLocal   = "local"
	ServiceTypeDigital = "digital"
)

// Status de anúncio
const (
	ListingStatusActive   = "ativo"
	ListingStatusInactive = "inativo"
)

// Tipos de conversa
const (
	ConversationKindRequest        = "request_negotiation"
	ConversationKindLocalService   = "local_service"
	ConversationKindDigitalService = "digital_service"
	ConversationKindProduct        = "product_inquiry"
)

// Status de conversa
const (
	ConversationStatusActive = "active"
	ConversationStatusClosed = "closed"
)

// Tipos de mensagem
const (
	MessageKindNormal   = "normal"
	MessageKindSystem   = "system"
	MessageKindAdmin    = "admin"
	MessageKindWarning  = "warning"
	MessageKindProposal = "proposal"
)

// Tipos de anexo de mensagem
const (
	MessageFileImage    = "image"
	MessageFileDocument = "document"
)

// Status de proposta
const (
	ProposalStatusPending   = "pending"
	ProposalStatusAccepted  = "accepted"
	ProposalStatusRejected  = "rejected"
	ProposalStatusCancelled = "cancelled"
)

// ValidListingTypes lista os tipos válidos de anúncio.
var ValidListingTypes = map[string]struct{}{
	ListingTypeRequest: {},
	ListingTypeService: {},
	ListingTypeProduct: {},
}

// ValidServiceTypes lista as modalidades válidas de serviço.
var ValidServiceTypes = map[string]struct{}{
	ServiceTypeLocal:   {},
	ServiceTypeDigital: {},
}

// ValidProposalStatuses lista os status válidos de proposta.
var ValidProposalStatuses = map[string]struct{}{
	ProposalStatusPending:   {},
	ProposalStatusAccepted:  {},
	ProposalStatusRejected:  {},
	ProposalStatusCancelled: {},
}

// ProposalTerminalStatuses lista os status terminais de proposta.
// Uma vez terminal, nenhuma transição é permitida.
var ProposalTerminalStatuses = map[string]struct{}{
	ProposalStatusAccepted:  {},
	ProposalStatusRejected:  {},
	ProposalStatusCancelled: {},
}
