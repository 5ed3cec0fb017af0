package extract

const chatgptPage = `<html><body><main>
<div data-message-author-role="user"><div class="whitespace-pre-wrap">Plan a trip to Japan</div></div>
<div data-message-author-role="assistant"><div class="markdown prose"><p>Sure, here are some ideas...</p></div><button>Copy</button></div>
<div data-message-author-role="user"><div>   </div></div>
<div data-message-author-role="user"><div>Focus on Tokyo</div></div>
<div data-message-author-role="assistant"><div class="markdown"><p>Tokyo has...</p></div></div>
</main>
<form><div id="prompt-textarea" contenteditable="true"></div></form>
</body></html>`

const chatgptTurnsPage = `<html><body><main>
<article data-testid="conversation-turn-1">What is Go?</article>
<article data-testid="conversation-turn-2">Go is a programming language.</article>
<article data-testid="conversation-turn-3">Show me an example</article>
</main></body></html>`

const chatgptTextBlocksPage = `<html><body><main>
<div class="markdown">Tell me about distributed consensus protocols</div>
<div class="prose">Ok</div>
<div class="prose">Raft and Paxos are the two classic consensus protocols.</div>
</main><textarea></textarea></body></html>`

const claudeSplitPage = `<html><body>
<div class="conversation">
  <div data-testid="user-message">Explain monads</div>
  <div class="font-claude-message"><p>A monad is a design pattern...</p></div>
  <div data-testid="user-message">Give an example in Haskell</div>
  <div class="font-claude-message"><p>Here is Maybe...</p></div>
</div>
<div data-testid="prompt-input" contenteditable="true"></div>
</body></html>`

const claudeChatMessagePage = `<html><body>
<div data-testid="chat-message"><div data-is-human-message="true">Hello Claude</div></div>
<div data-testid="chat-message">Hello! How can I help?</div>
<div data-testid="chat-message">Summarize this article</div>
</body></html>`

const claudeProsePage = `<html><body>
<div class="prose">Why is the sky blue on clear days?</div>
<div class="prose">Hi</div>
<div class="prose">Rayleigh scattering affects shorter wavelengths more strongly.</div>
</body></html>`

const geminiPage = `<html><body><div class="conversation-container">
<div class="turn"><user-query><p>Compare Rust and Go</p></user-query></div>
<div class="turn"><model-response><div>Rust focuses on memory safety...</div></model-response></div>
<div class="turn"><user-query><p>Which compiles faster?</p></user-query></div>
<div class="turn"><model-response><div>Go generally compiles faster.</div></model-response></div>
<div class="turn"><user-query><p>Thanks</p></user-query></div>
</div>
<rich-textarea><div class="ql-editor" contenteditable="true"></div></rich-textarea>
</body></html>`

const geminiTurnsPage = `<html><body>
<div class="conversation-turn">First question</div>
<div class="conversation-turn">First answer</div>
</body></html>`

const emptyPage = `<html><body><main><nav>Home</nav></main></body></html>`
