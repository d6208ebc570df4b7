package model

import "time"

type ID = uint

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleVereador   Role = "vereador"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleVereador:
		return true
	}
	return false
}

// IsAdmin reports whether the role may run chamber administration
// operations (session transitions, voting control, attendance).
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// CargoPresidente is the office that carries the chamber-admin role.
// At most one member per chamber holds it at a time.
const CargoPresidente = "Presidente"

type Camara struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Nome      string `json:"nome" db:"nome"`
	Municipio string `json:"municipio" db:"municipio"`
	UF        string `json:"uf" db:"uf"`
}

type User struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Nome         string  `json:"nome" db:"nome"`
	Email        string  `json:"email" db:"email"`
	PasswordHash string  `json:"-" db:"password_hash"`
	Role         Role    `json:"role" db:"role"`
	Partido      string  `json:"partido" db:"partido"`
	Cargo        string  `json:"cargo" db:"cargo"`
	Foto         *string `json:"foto,omitempty" db:"foto"`

	Camara ID `json:"camara_id" db:"camara_id"`
}

type SessaoTipo string

const (
	SessaoOrdinaria      SessaoTipo = "ordinaria"
	SessaoExtraordinaria SessaoTipo = "extraordinaria"
	SessaoSolene         SessaoTipo = "solene"
	SessaoSecreta        SessaoTipo = "secreta"
	SessaoInaugural      SessaoTipo = "inaugural"
	SessaoComunitaria    SessaoTipo = "comunitaria"
)

func (t SessaoTipo) Valid() bool {
	switch t {
	case SessaoOrdinaria, SessaoExtraordinaria, SessaoSolene,
		SessaoSecreta, SessaoInaugural, SessaoComunitaria:
		return true
	}
	return false
}

type SessaoStatus string

const (
	SessaoAgendada    SessaoStatus = "agendada"
	SessaoEmAndamento SessaoStatus = "em_andamento"
	SessaoFinalizada  SessaoStatus = "finalizada"
	SessaoCancelada   SessaoStatus = "cancelada"
)

type Sessao struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Titulo    string       `json:"titulo" db:"titulo"`
	Descricao string       `json:"descricao" db:"descricao"`
	Data      time.Time    `json:"data_sessao" db:"data_sessao"`
	Tipo      SessaoTipo   `json:"tipo" db:"tipo"`
	Status    SessaoStatus `json:"status" db:"status"`

	Camara ID `json:"camara_id" db:"camara_id"`
}

// CanIniciar reports whether the session may leave the scheduled state.
// Only agendada sessions start; in-progress and terminal sessions stay put.
func (s Sessao) CanIniciar() bool {
	return s.Status == SessaoAgendada
}

func (s Sessao) CanFinalizar() bool {
	return s.Status == SessaoEmAndamento
}

// CanCancelar allows cancellation from agendada and em_andamento only.
func (s Sessao) CanCancelar() bool {
	return s.Status == SessaoAgendada || s.Status == SessaoEmAndamento
}

type ProjetoStatus string

const (
	ProjetoApresentado ProjetoStatus = "apresentado"
	ProjetoEmVotacao   ProjetoStatus = "em_votacao"
	ProjetoAprovado    ProjetoStatus = "aprovado"
	ProjetoRejeitado   ProjetoStatus = "rejeitado"
)

type Projeto struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Titulo           string        `json:"titulo" db:"titulo"`
	Descricao        string        `json:"descricao" db:"descricao"`
	Autor            string        `json:"autor" db:"autor"`
	Status           ProjetoStatus `json:"status" db:"status"`
	DataApresentacao time.Time     `json:"data_apresentacao" db:"data_apresentacao"`

	Sessao ID `json:"sessao_id" db:"sessao_id"`
	Camara ID `json:"camara_id" db:"camara_id"`
}

func (p Projeto) CanIniciarVotacao() bool {
	return p.Status == ProjetoApresentado
}

func (p Projeto) CanReceberVoto() bool {
	return p.Status == ProjetoEmVotacao
}

type TipoVoto string

const (
	VotoSim    TipoVoto = "sim"
	VotoNao    TipoVoto = "nao"
	VotoAbster TipoVoto = "abster"
)

func (t TipoVoto) Valid() bool {
	switch t {
	case VotoSim, VotoNao, VotoAbster:
		return true
	}
	return false
}

type Voto struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Projeto  ID       `json:"projeto_id" db:"projeto_id"`
	Vereador ID       `json:"vereador_id" db:"vereador_id"`
	Tipo     TipoVoto `json:"tipo_voto" db:"tipo_voto"`
}

type ContagemVotos struct {
	Sim    int `json:"sim" db:"sim"`
	Nao    int `json:"nao" db:"nao"`
	Abster int `json:"abster" db:"abster"`
}

// Decidir closes a ballot: approved on a strict majority of yes over no.
// Ties reject, as does a ballot with abstentions only. Abstentions are
// reported in the tally but never enter the comparison.
func (c ContagemVotos) Decidir() ProjetoStatus {
	if c.Sim > c.Nao {
		return ProjetoAprovado
	}
	return ProjetoRejeitado
}

type Presenca struct {
	ID           ID        `json:"id" db:"id"`
	RegistradoEm time.Time `json:"registrado_em" db:"registrado_em"`

	Sessao   ID   `json:"sessao_id" db:"sessao_id"`
	Vereador ID   `json:"vereador_id" db:"vereador_id"`
	Presente bool `json:"presente" db:"presente"`
}

type ContagemPresenca struct {
	Total     int `json:"total" db:"total"`
	Presentes int `json:"presentes" db:"presentes"`
	Ausentes  int `json:"ausentes" db:"ausentes"`
}

type RefreshToken struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	User      ID        `json:"user_id" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
}
