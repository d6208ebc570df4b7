package main

import (
	"github.com/opencamara/camara-server/internal/model"
	"github.com/opencamara/camara-server/internal/validator"
)

// Validation rules

func validateVereadorNome(v *validator.Validator, nome string) {
	v.CheckField(validator.NotBlank(nome), "nome", "cannot be blank")
	v.CheckField(validator.MaxRunes(nome, 200), "nome", "too long")
}

func validateEmail(v *validator.Validator, email string) {
	v.CheckField(validator.NotBlank(email), "email", "cannot be blank")
	v.CheckField(validator.IsEmail(email), "email", "must be a valid email address")
}

func validatePassword(v *validator.Validator, password string) {
	v.CheckField(validator.NotBlank(password), "password", "cannot be blank")
	v.CheckField(validator.MinRunes(password, 8), "password", "must be at least 8 characters")
}

func validateSessaoTitulo(v *validator.Validator, titulo string) {
	v.CheckField(validator.NotBlank(titulo), "titulo", "cannot be blank")
	v.CheckField(validator.MaxRunes(titulo, 300), "titulo", "too long")
}

func validateSessaoTipo(v *validator.Validator, tipo model.SessaoTipo) {
	v.CheckField(tipo.Valid(), "tipo", "must be one of: ordinaria, extraordinaria, solene, secreta, inaugural, comunitaria")
}

func validateProjetoTitulo(v *validator.Validator, titulo string) {
	v.CheckField(validator.NotBlank(titulo), "titulo", "cannot be blank")
	v.CheckField(validator.MaxRunes(titulo, 300), "titulo", "too long")
}

func validateProjetoStatus(v *validator.Validator, status model.ProjetoStatus) {
	v.CheckField(
		validator.In(status, model.ProjetoApresentado, model.ProjetoEmVotacao, model.ProjetoAprovado, model.ProjetoRejeitado),
		"status",
		"must be one of: apresentado, em_votacao, aprovado, rejeitado",
	)
}

func validateTipoVoto(v *validator.Validator, tipo model.TipoVoto) {
	v.CheckField(tipo.Valid(), "tipo_voto", "must be one of: sim, nao, abster")
}
