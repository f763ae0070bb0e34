package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// Cores para o terminal (ANSI)
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
)

func main() {
	fmt.Println(ColorCyan + "╔══════════════════════════════════════╗" + ColorReset)
	fmt.Println(ColorCyan + "║      RenderBench Native Builder      ║" + ColorReset)
	fmt.Println(ColorCyan + "╚══════════════════════════════════════╝" + ColorReset)

	start := time.Now()

	// 1. Configurar Ambiente
	setupEnvironment()

	// 2. Testes dos pacotes sem GPU
	if err := runTests("./shared/...", "./viewer/internal/solids", "./viewer/internal/textures",
		"./viewer/internal/city", "./viewer/internal/render", "./viewer/internal/citybuilder",
		"./viewer/internal/stats", "./viewer/internal/camera"); err != nil {
		fatal(err)
	}

	// 3. Compilar Viewer
	output := "RenderBench"
	ldflags := "-s -w"
	if runtime.GOOS == "windows" {
		output += ".exe"
		ldflags = "-extldflags=-static -s -w -H=windowsgui"
	}
	if err := buildComponent("VIEWER (CGO + raylib)", "viewer", output, true, ldflags); err != nil {
		fatal(err)
	}

	fmt.Printf("\n"+ColorCyan+"Build finalizada com sucesso em %v!"+ColorReset+"\n", time.Since(start).Round(time.Second))
	fmt.Printf(ColorYellow+"Dica: Execute './%s -seconds 60' para um benchmark de um minuto."+ColorReset+"\n", output)
}

func setupEnvironment() {
	fmt.Println(ColorYellow + "\n[0/2] Configurando ambiente de compilação..." + ColorReset)

	// Adicionar MSYS2 ao PATH se estiver no Windows
	if runtime.GOOS == "windows" {
		msysPath := `C:\msys64\mingw64\bin`
		currentPath := os.Getenv("PATH")
		if !strings.Contains(currentPath, msysPath) {
			os.Setenv("PATH", msysPath+";"+currentPath)
			fmt.Printf("  - PATH atualizado: %s adicionado.\n", msysPath)
		}
		os.Setenv("CC", "gcc")
		fmt.Println("  - Compilador C: gcc (MSYS2)")
	}
}

func buildComponent(name, dir, output string, useCgo bool, ldflags string) error {
	fmt.Printf(ColorYellow+"\n[+] Compilando %s..."+ColorReset+"\n", name)

	cgoValue := "0"
	if useCgo {
		cgoValue = "1"
	}
	os.Setenv("CGO_ENABLED", cgoValue)

	args := []string{"build", "-ldflags", ldflags, "-o", output, "./" + dir}
	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("falha ao compilar %s: %w", name, err)
	}

	fmt.Printf(ColorGreen+"  - %s compilado com sucesso -> %s"+ColorReset+"\n", name, output)
	return nil
}

func runTests(pkgs ...string) error {
	fmt.Println(ColorYellow + "\n[+] Rodando testes..." + ColorReset)

	args := append([]string{"test", "-count=1"}, pkgs...)
	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("testes falharam: %w", err)
	}
	fmt.Println(ColorGreen + "  - Testes OK" + ColorReset)
	return nil
}

func fatal(err error) {
	fmt.Printf("\n"+ColorRed+"[ERRO FATAL] %v"+ColorReset+"\n", err)
	os.Exit(1)
}
