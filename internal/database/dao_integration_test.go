package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/opencamara/camara-server/internal/model"
)

// These tests need a reachable Postgres. Point TEST_DB_DSN at one
// (user:pass@host:port/dbname?sslmode=disable) to enable them; the
// schema is migrated automatically.
func testDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	db, err := New(dsn, true)
	if err != nil {
		t.Fatalf("connect test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

type fixture struct {
	db        *DB
	camaras   *CamaraDAO
	users     *UserDAO
	sessoes   *SessaoDAO
	projetos  *ProjetoDAO
	votos     *VotoDAO
	presencas *PresencaDAO

	camara model.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testDB(t)
	logger := testLogger()

	f := &fixture{
		db:        db,
		camaras:   NewCamaraDAO(logger, db),
		users:     NewUserDAO(logger, db),
		sessoes:   NewSessaoDAO(logger, db),
		projetos:  NewProjetoDAO(logger, db),
		votos:     NewVotoDAO(logger, db),
		presencas: NewPresencaDAO(logger, db),
	}

	camara, err := f.camaras.Insert(context.Background(), InsertCamaraDTO{
		Nome:      "Câmara de Teste",
		Municipio: "Testópolis",
		UF:        "SP",
	})
	if err != nil {
		t.Fatalf("insert camara: %v", err)
	}
	f.camara = camara

	t.Cleanup(func() {
		f.camaras.Delete(context.Background(), camara)
	})

	return f
}

func (f *fixture) addVereador(t *testing.T, nome string) model.ID {
	t.Helper()

	id, err := f.users.Insert(context.Background(), InsertUserDTO{
		Nome:         nome,
		Email:        fmt.Sprintf("%s-%d@teste.gov.br", nome, time.Now().UnixNano()),
		PasswordHash: "x",
		Role:         model.RoleVereador,
		Partido:      "PT",
		Camara:       f.camara,
	})
	if err != nil {
		t.Fatalf("insert vereador %s: %v", nome, err)
	}
	return id
}

func (f *fixture) addSessao(t *testing.T) model.ID {
	t.Helper()

	id, err := f.sessoes.Insert(context.Background(), InsertSessaoDTO{
		Titulo: "Sessão Ordinária",
		Data:   time.Now(),
		Tipo:   model.SessaoOrdinaria,
		Camara: f.camara,
	})
	if err != nil {
		t.Fatalf("insert sessao: %v", err)
	}
	return id
}

func (f *fixture) addProjeto(t *testing.T, sessao model.ID) model.ID {
	t.Helper()

	id, err := f.projetos.Insert(context.Background(), InsertProjetoDTO{
		Titulo:           "Projeto de Lei 001",
		Descricao:        "Ementa de teste",
		Autor:            "Ver. Fulano",
		DataApresentacao: time.Now(),
		Sessao:           sessao,
		Camara:           f.camara,
	})
	if err != nil {
		t.Fatalf("insert projeto: %v", err)
	}
	return id
}

func TestSessaoStatusTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sessao := f.addSessao(t)

	// agendada -> em_andamento
	if err := f.sessoes.UpdateStatus(ctx, sessao, model.SessaoAgendada, model.SessaoEmAndamento); err != nil {
		t.Fatalf("iniciar: %v", err)
	}

	// a second start must lose the guarded update
	err := f.sessoes.UpdateStatus(ctx, sessao, model.SessaoAgendada, model.SessaoEmAndamento)
	if !errors.Is(err, model.ErrInvalidTransition) {
		t.Fatalf("double iniciar error = %v, want ErrInvalidTransition", err)
	}

	if err := f.sessoes.UpdateStatus(ctx, sessao, model.SessaoEmAndamento, model.SessaoFinalizada); err != nil {
		t.Fatalf("finalizar: %v", err)
	}

	got, err := f.sessoes.Get(ctx, sessao)
	if err != nil {
		t.Fatalf("get sessao: %v", err)
	}
	if got.Status != model.SessaoFinalizada {
		t.Errorf("status = %q, want finalizada", got.Status)
	}
}

func TestVotacaoScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sessao := f.addSessao(t)
	if err := f.sessoes.UpdateStatus(ctx, sessao, model.SessaoAgendada, model.SessaoEmAndamento); err != nil {
		t.Fatalf("iniciar sessao: %v", err)
	}

	projeto := f.addProjeto(t, sessao)
	if err := f.projetos.UpdateStatus(ctx, projeto, model.ProjetoApresentado, model.ProjetoEmVotacao); err != nil {
		t.Fatalf("iniciar votacao: %v", err)
	}

	vereador := f.addVereador(t, "maria")
	if _, err := f.votos.Insert(ctx, InsertVotoDTO{Projeto: projeto, Vereador: vereador, Tipo: model.VotoSim}); err != nil {
		t.Fatalf("castVote: %v", err)
	}

	// one vote per (member, project): the unique index rejects a rerun
	_, err := f.votos.Insert(ctx, InsertVotoDTO{Projeto: projeto, Vereador: vereador, Tipo: model.VotoNao})
	if !errors.Is(err, model.ErrExists) {
		t.Fatalf("duplicate vote error = %v, want ErrExists", err)
	}

	fechado, contagem, err := f.projetos.FinalizarVotacao(ctx, projeto)
	if err != nil {
		t.Fatalf("finalizarVotacao: %v", err)
	}

	if fechado.Status != model.ProjetoAprovado {
		t.Errorf("status = %q, want aprovado", fechado.Status)
	}
	want := model.ContagemVotos{Sim: 1}
	if diff := cmp.Diff(want, contagem); diff != "" {
		t.Errorf("contagem mismatch (-want +got):\n%s", diff)
	}

	// terminal state is not re-enterable
	if _, _, err := f.projetos.FinalizarVotacao(ctx, projeto); !errors.Is(err, model.ErrInvalidState) {
		t.Errorf("second finalizarVotacao error = %v, want ErrInvalidState", err)
	}
}

func TestTallyTieRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sessao := f.addSessao(t)
	projeto := f.addProjeto(t, sessao)
	if err := f.projetos.UpdateStatus(ctx, projeto, model.ProjetoApresentado, model.ProjetoEmVotacao); err != nil {
		t.Fatalf("iniciar votacao: %v", err)
	}

	for i, tipo := range []model.TipoVoto{model.VotoSim, model.VotoSim, model.VotoNao, model.VotoNao} {
		v := f.addVereador(t, fmt.Sprintf("vereador%d", i))
		if _, err := f.votos.Insert(ctx, InsertVotoDTO{Projeto: projeto, Vereador: v, Tipo: tipo}); err != nil {
			t.Fatalf("vote %d: %v", i, err)
		}
	}

	fechado, contagem, err := f.projetos.FinalizarVotacao(ctx, projeto)
	if err != nil {
		t.Fatalf("finalizarVotacao: %v", err)
	}

	if fechado.Status != model.ProjetoRejeitado {
		t.Errorf("2x2 tie closed as %q, want rejeitado", fechado.Status)
	}
	if contagem.Sim != 2 || contagem.Nao != 2 || contagem.Abster != 0 {
		t.Errorf("contagem = %+v, want {2 2 0}", contagem)
	}
}

func TestTallyEmptyBallot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	projeto := f.addProjeto(t, f.addSessao(t))

	contagem, err := f.votos.Tally(ctx, projeto)
	if err != nil {
		t.Fatalf("tally of empty ballot: %v", err)
	}
	if diff := cmp.Diff(model.ContagemVotos{}, contagem); diff != "" {
		t.Errorf("contagem mismatch (-want +got):\n%s", diff)
	}
}

// Pins the deliberate asymmetry between the bulk attendance operations:
// todos-presentes creates rows for every chamber member, todos-ausentes
// only flips rows that already exist.
func TestPresencaDAO_BulkAsymmetry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sessao := f.addSessao(t)
	for i := 0; i < 3; i++ {
		f.addVereador(t, fmt.Sprintf("presente%d", i))
	}

	marked, err := f.presencas.MarkAllAbsent(ctx, sessao)
	if err != nil {
		t.Fatalf("markAllAbsent: %v", err)
	}
	if marked != 0 {
		t.Errorf("markAllAbsent with no rows marked %d, want 0 (no rows created)", marked)
	}

	marked, err = f.presencas.MarkAllPresent(ctx, sessao, f.camara)
	if err != nil {
		t.Fatalf("markAllPresent: %v", err)
	}
	if marked != 3 {
		t.Errorf("markAllPresent marked %d, want 3", marked)
	}

	contagem, err := f.presencas.Count(ctx, sessao)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	want := model.ContagemPresenca{Total: 3, Presentes: 3, Ausentes: 0}
	if diff := cmp.Diff(want, contagem); diff != "" {
		t.Errorf("contagem mismatch (-want +got):\n%s", diff)
	}

	marked, err = f.presencas.MarkAllAbsent(ctx, sessao)
	if err != nil {
		t.Fatalf("markAllAbsent: %v", err)
	}
	if marked != 3 {
		t.Errorf("markAllAbsent marked %d, want 3", marked)
	}
}

func TestPresencaDefaultAbsent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sessao := f.addSessao(t)
	vereador := f.addVereador(t, "ausente")

	presente, err := f.presencas.IsPresent(ctx, vereador, sessao)
	if err != nil {
		t.Fatalf("isPresent without row: %v", err)
	}
	if presente {
		t.Error("isPresent = true for member with no attendance row")
	}

	if _, err := f.presencas.Upsert(ctx, sessao, vereador, true); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := f.presencas.Upsert(ctx, sessao, vereador, false); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	rows, err := f.presencas.FindBySessao(ctx, sessao)
	if err != nil {
		t.Fatalf("findBySessao: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("upsert duplicated the row: got %d rows", len(rows))
	}
	if rows[0].Presente {
		t.Error("second upsert did not rewrite presente")
	}
}

func TestPromoteToPresident(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.addVereador(t, "primeiro")
	second := f.addVereador(t, "segundo")

	if err := f.users.PromoteToPresident(ctx, f.camara, first); err != nil {
		t.Fatalf("first promotion: %v", err)
	}
	if err := f.users.PromoteToPresident(ctx, f.camara, second); err != nil {
		t.Fatalf("second promotion: %v", err)
	}

	role := model.RoleAdmin
	admins, err := f.users.Find(ctx, FindUserFilter{Camara: &f.camara, Role: &role}, FindOptions{Limit: 10})
	if err != nil {
		t.Fatalf("find admins: %v", err)
	}
	if len(admins) != 1 {
		t.Fatalf("chamber has %d admins, want exactly 1", len(admins))
	}
	if admins[0].ID != second {
		t.Errorf("admin is %d, want the newly promoted %d", admins[0].ID, second)
	}
	if admins[0].Cargo != model.CargoPresidente {
		t.Errorf("cargo = %q, want Presidente", admins[0].Cargo)
	}

	demoted, err := f.users.Get(ctx, first)
	if err != nil {
		t.Fatalf("get demoted: %v", err)
	}
	if demoted.Role != model.RoleVereador {
		t.Errorf("previous president role = %q, want vereador", demoted.Role)
	}
	if demoted.Cargo == model.CargoPresidente {
		t.Error("previous president kept cargo Presidente after demotion")
	}

	if err := f.users.PromoteToPresident(ctx, f.camara, 999999); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("promotion of missing member error = %v, want ErrNotFound", err)
	}
}

func TestInsertPresident(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sitting := f.addVereador(t, "titular")
	if err := f.users.PromoteToPresident(ctx, f.camara, sitting); err != nil {
		t.Fatalf("seat sitting president: %v", err)
	}

	id, err := f.users.InsertPresident(ctx, InsertUserDTO{
		Nome:         "novo presidente",
		Email:        fmt.Sprintf("presidente-%d@teste.gov.br", time.Now().UnixNano()),
		PasswordHash: "x",
		Role:         model.RoleVereador,
		Cargo:        model.CargoPresidente,
		Camara:       f.camara,
	})
	if err != nil {
		t.Fatalf("insertPresident: %v", err)
	}

	presidente, err := f.users.Get(ctx, id)
	if err != nil {
		t.Fatalf("get presidente: %v", err)
	}
	if presidente.Role != model.RoleAdmin || presidente.Cargo != model.CargoPresidente {
		t.Errorf("new member role/cargo = %q/%q, want admin/Presidente", presidente.Role, presidente.Cargo)
	}

	holders := 0
	all, err := f.users.Find(ctx, FindUserFilter{Camara: &f.camara}, FindOptions{Limit: 50})
	if err != nil {
		t.Fatalf("find members: %v", err)
	}
	for _, u := range all {
		if u.Cargo == model.CargoPresidente {
			holders++
		}
	}
	if holders != 1 {
		t.Errorf("chamber has %d Presidente office holders, want exactly 1", holders)
	}

	// the promotion must not survive when the insert cannot land
	_, err = f.users.InsertPresident(ctx, InsertUserDTO{
		Nome:         "sem camara",
		Email:        fmt.Sprintf("orfao-%d@teste.gov.br", time.Now().UnixNano()),
		PasswordHash: "x",
		Role:         model.RoleVereador,
		Cargo:        model.CargoPresidente,
		Camara:       999999,
	})
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("insertPresident into missing chamber error = %v, want ErrNotFound", err)
	}

	still, err := f.users.Get(ctx, id)
	if err != nil {
		t.Fatalf("get presidente after failed insert: %v", err)
	}
	if still.Role != model.RoleAdmin || still.Cargo != model.CargoPresidente {
		t.Errorf("sitting president lost role/cargo (%q/%q) to a rolled-back insert", still.Role, still.Cargo)
	}
}

// Foreign-key failures must name the entity that is actually missing, not
// a fixed one per table.
func TestForeignKeyNamesMissingEntity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sessao := f.addSessao(t)
	projeto := f.addProjeto(t, sessao)
	vereador := f.addVereador(t, "fk")

	_, err := f.presencas.Upsert(ctx, sessao, 999999, true)
	if !errors.Is(err, model.ErrNotFound) || !strings.Contains(err.Error(), "vereador") {
		t.Errorf("presenca with missing vereador: %v, want vereador not found", err)
	}

	if err := f.projetos.UpdateStatus(ctx, projeto, model.ProjetoApresentado, model.ProjetoEmVotacao); err != nil {
		t.Fatalf("iniciar votacao: %v", err)
	}

	_, err = f.votos.Insert(ctx, InsertVotoDTO{Projeto: projeto, Vereador: 999999, Tipo: model.VotoSim})
	if !errors.Is(err, model.ErrNotFound) || !strings.Contains(err.Error(), "vereador") {
		t.Errorf("voto with missing vereador: %v, want vereador not found", err)
	}

	_, err = f.votos.Insert(ctx, InsertVotoDTO{Projeto: 999999, Vereador: vereador, Tipo: model.VotoSim})
	if !errors.Is(err, model.ErrNotFound) || !strings.Contains(err.Error(), "projeto") {
		t.Errorf("voto with missing projeto: %v, want projeto not found", err)
	}

	_, err = f.projetos.Insert(ctx, InsertProjetoDTO{
		Titulo:           "Projeto órfão",
		Descricao:        "x",
		Autor:            "x",
		DataApresentacao: time.Now(),
		Sessao:           999999,
		Camara:           f.camara,
	})
	if !errors.Is(err, model.ErrNotFound) || !strings.Contains(err.Error(), "sessao") {
		t.Errorf("projeto with missing sessao: %v, want sessao not found", err)
	}
}
