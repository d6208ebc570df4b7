package model

import "testing"

func TestSessaoTransitions(t *testing.T) {
	tests := []struct {
		status       SessaoStatus
		canIniciar   bool
		canFinalizar bool
		canCancelar  bool
	}{
		{SessaoAgendada, true, false, true},
		{SessaoEmAndamento, false, true, true},
		{SessaoFinalizada, false, false, false},
		{SessaoCancelada, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			s := Sessao{Status: tt.status}
			if got := s.CanIniciar(); got != tt.canIniciar {
				t.Errorf("CanIniciar() = %v, want %v", got, tt.canIniciar)
			}
			if got := s.CanFinalizar(); got != tt.canFinalizar {
				t.Errorf("CanFinalizar() = %v, want %v", got, tt.canFinalizar)
			}
			if got := s.CanCancelar(); got != tt.canCancelar {
				t.Errorf("CanCancelar() = %v, want %v", got, tt.canCancelar)
			}
		})
	}
}

func TestProjetoTransitions(t *testing.T) {
	tests := []struct {
		status            ProjetoStatus
		canIniciarVotacao bool
		canReceberVoto    bool
	}{
		{ProjetoApresentado, true, false},
		{ProjetoEmVotacao, false, true},
		{ProjetoAprovado, false, false},
		{ProjetoRejeitado, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			p := Projeto{Status: tt.status}
			if got := p.CanIniciarVotacao(); got != tt.canIniciarVotacao {
				t.Errorf("CanIniciarVotacao() = %v, want %v", got, tt.canIniciarVotacao)
			}
			if got := p.CanReceberVoto(); got != tt.canReceberVoto {
				t.Errorf("CanReceberVoto() = %v, want %v", got, tt.canReceberVoto)
			}
		})
	}
}

func TestContagemVotosDecidir(t *testing.T) {
	tests := []struct {
		name     string
		contagem ContagemVotos
		want     ProjetoStatus
	}{
		{"majority yes", ContagemVotos{Sim: 3, Nao: 1, Abster: 2}, ProjetoAprovado},
		{"single yes", ContagemVotos{Sim: 1}, ProjetoAprovado},
		{"tie rejects", ContagemVotos{Sim: 2, Nao: 2}, ProjetoRejeitado},
		{"zero votes rejects", ContagemVotos{}, ProjetoRejeitado},
		{"abstentions only rejects", ContagemVotos{Abster: 5}, ProjetoRejeitado},
		{"majority no", ContagemVotos{Sim: 1, Nao: 4}, ProjetoRejeitado},
		{"abstentions never tip", ContagemVotos{Sim: 1, Nao: 2, Abster: 10}, ProjetoRejeitado},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.contagem.Decidir(); got != tt.want {
				t.Errorf("Decidir(%+v) = %q, want %q", tt.contagem, got, tt.want)
			}
		})
	}
}

func TestTipoVotoValid(t *testing.T) {
	for _, v := range []TipoVoto{VotoSim, VotoNao, VotoAbster} {
		if !v.Valid() {
			t.Errorf("TipoVoto(%q).Valid() = false, want true", v)
		}
	}
	for _, v := range []TipoVoto{"", "talvez", "SIM", "abstencao"} {
		if v.Valid() {
			t.Errorf("TipoVoto(%q).Valid() = true, want false", v)
		}
	}
}

func TestRoleIsAdmin(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleSuperAdmin, true},
		{RoleAdmin, true},
		{RoleVereador, false},
		{Role("visitante"), false},
	}

	for _, tt := range tests {
		if got := tt.role.IsAdmin(); got != tt.want {
			t.Errorf("Role(%q).IsAdmin() = %v, want %v", tt.role, got, tt.want)
		}
	}
}
