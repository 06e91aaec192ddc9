package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/clients"
)

// Looks up the cross-chain status of an inbound transaction hash against the
// ZetaChain LCD, the same query the settlement tracker polls.
func main() {
	baseURL := flag.String("lcd", "https://zetachain-athens.blockpi.network/lcd/v1/public", "ZetaChain LCD base URL")
	hash := flag.String("hash", "", "inbound (source chain) transaction hash")
	flag.Parse()

	if *hash == "" {
		log.Fatal("usage: cctx-status -hash 0x...")
	}

	client := clients.NewCctxClient(*baseURL, 30*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cctx, err := client.GetCctxByInboundHash(ctx, *hash)
	if err != nil {
		log.Fatalf("❌ LCD query failed: %v", err)
	}
	if cctx == nil {
		fmt.Println("no cctx observed yet for this hash")
		return
	}

	fmt.Printf("cctx index: %s\n", cctx.Index)
	fmt.Printf("status:     %s\n", cctx.CctxStatus.Status)
	if cctx.CctxStatus.StatusMessage != "" {
		fmt.Printf("message:    %s\n", cctx.CctxStatus.StatusMessage)
	}
}
