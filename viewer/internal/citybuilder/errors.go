package citybuilder

import (
	"fmt"
	"time"

	"RenderBench/viewer/internal/textures"
)

// ConfigError indica parâmetros inválidos; o builder não inicia nenhum worker.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuração inválida: %s=%v: %s", e.Field, e.Value, e.Reason)
}

// AssetLoadError é o erro do cache de texturas, repassado sem alteração.
type AssetLoadError = textures.AssetLoadError

// ResourceRegistrationError indica que o engine recusou um recurso.
// Durante a geração ele descarta só o lote afetado.
type ResourceRegistrationError struct {
	Op    string
	Block int // índice do bloco no lote, -1 fora de um lote
	Err   error
}

func (e *ResourceRegistrationError) Error() string {
	if e.Block < 0 {
		return fmt.Sprintf("registro recusado em %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("registro recusado em %s (bloco %d): %v", e.Op, e.Block, e.Err)
}

func (e *ResourceRegistrationError) Unwrap() error { return e.Err }

// ShutdownError indica workers que não terminaram dentro do tempo de Stop.
type ShutdownError struct {
	Workers []int
	Timeout time.Duration
}

func (e *ShutdownError) Error() string {
	return fmt.Sprintf("%d worker(s) ainda rodando após %v: %v", len(e.Workers), e.Timeout, e.Workers)
}
